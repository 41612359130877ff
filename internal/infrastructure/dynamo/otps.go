package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/synergysphere/auth-api/internal/domain"
)

// OTPRepo persists one-time passcodes in the otps table.
// PK: otp_id (ULID), GSI: email-purpose-index (email HASH, purpose RANGE).
//
// Issuing never deletes or overwrites earlier codes for the same
// (email, purpose) pair; multiple outstanding records can coexist until
// each expires or is consumed. Reads always filter on used and expires_at,
// and the mutating operations are single conditional updates so concurrent
// verification attempts can neither double-consume a code nor lose an
// attempt increment.
type OTPRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewOTPRepo(client *dynamodb.Client, tableName string) *OTPRepo {
	return &OTPRepo{client: client, tableName: tableName}
}

func (r *OTPRepo) Put(ctx context.Context, rec *domain.OTPRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal otp record: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// FindActive returns a record matching email, code and purpose that is
// unused and unexpired. When several outstanding records match, any one of
// them may be returned.
func (r *OTPRepo) FindActive(ctx context.Context, email, code string, purpose domain.OTPPurpose) (*domain.OTPRecord, error) {
	recs, err := r.query(ctx, email, purpose, &code)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("otp not found: %w", domain.ErrNotFound)
	}
	return &recs[0], nil
}

// FindCurrent returns the newest unused, unexpired record for the pair
// regardless of code. Used for attempt accounting on wrong guesses: the
// most recently issued code is the one the user realistically knows.
func (r *OTPRepo) FindCurrent(ctx context.Context, email string, purpose domain.OTPPurpose) (*domain.OTPRecord, error) {
	recs, err := r.query(ctx, email, purpose, nil)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("otp not found: %w", domain.ErrNotFound)
	}
	// ULIDs sort by creation time, so the max otp_id is the newest record.
	newest := &recs[0]
	for i := range recs[1:] {
		if recs[i+1].OTPID > newest.OTPID {
			newest = &recs[i+1]
		}
	}
	return newest, nil
}

// MarkUsed flips used to true. The conditional write guarantees a record is
// consumed exactly once: of two racing verifications, the loser gets
// domain.ErrConflict.
func (r *OTPRepo) MarkUsed(ctx context.Context, otpID string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("otp_id", otpID),
		UpdateExpression:    aws.String("SET #u = :t"),
		ConditionExpression: aws.String("attribute_exists(otp_id) AND #u = :f"),
		ExpressionAttributeNames: map[string]string{
			"#u": attrUsed,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberBOOL{Value: true},
			":f": &types.AttributeValueMemberBOOL{Value: false},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("otp already consumed: %w", domain.ErrConflict)
		}
		return err
	}
	return nil
}

// IncrementAttempts bumps the attempt counter as one atomic conditional
// update — never a read-then-write — so concurrent wrong guesses cannot
// lose an increment. The condition caps the counter at MaxOTPAttempts and
// skips records consumed in the meantime; both cases come back as
// domain.ErrConflict.
func (r *OTPRepo) IncrementAttempts(ctx context.Context, otpID string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("otp_id", otpID),
		UpdateExpression:    aws.String("SET #a = #a + :one"),
		ConditionExpression: aws.String("attribute_exists(otp_id) AND #a < :max AND #u = :f"),
		ExpressionAttributeNames: map[string]string{
			"#a": attrAttempts,
			"#u": attrUsed,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
			":max": &types.AttributeValueMemberN{Value: strconv.Itoa(domain.MaxOTPAttempts)},
			":f":   &types.AttributeValueMemberBOOL{Value: false},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("otp attempts exhausted or consumed: %w", domain.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *OTPRepo) query(ctx context.Context, email string, purpose domain.OTPPurpose, code *string) ([]domain.OTPRecord, error) {
	names := map[string]string{
		"#e": "email",
		"#p": "purpose",
		"#u": attrUsed,
		"#x": attrExpires,
	}
	values := map[string]types.AttributeValue{
		":e":   &types.AttributeValueMemberS{Value: email},
		":p":   &types.AttributeValueMemberS{Value: string(purpose)},
		":f":   &types.AttributeValueMemberBOOL{Value: false},
		":now": &types.AttributeValueMemberN{Value: strconv.FormatInt(time.Now().Unix(), 10)},
	}
	filter := "#u = :f AND #x > :now"
	if code != nil {
		names["#c"] = attrCode
		values[":c"] = &types.AttributeValueMemberS{Value: *code}
		filter = "#c = :c AND " + filter
	}
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("email-purpose-index"),
		KeyConditionExpression:    aws.String("#e = :e AND #p = :p"),
		FilterExpression:          aws.String(filter),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		return nil, err
	}
	var recs []domain.OTPRecord
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}
