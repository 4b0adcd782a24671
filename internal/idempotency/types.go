package idempotency

import "time"

// Status values for idempotency entries
const (
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
	StatusFailed     = "FAILED"
)

// DefaultTTL is how long a key is remembered.
const DefaultTTL = 48 * time.Hour

// DefaultLease is how long an IN_PROGRESS record blocks other callers. It
// matches the longest Lambda invocation, after which the holder is gone.
const DefaultLease = 15 * time.Minute

// Record is the persisted idempotency entry. Key is the partition key
// (idempotency_key) in DynamoDB and _id in MongoDB.
type Record struct {
	Key            string    `bson:"_id" dynamodbav:"idempotency_key"`
	Status         string    `bson:"status" dynamodbav:"status"`
	OrderID        string    `bson:"order_id,omitempty" dynamodbav:"order_id,omitempty"`
	ResponseBody   string    `bson:"response_body,omitempty" dynamodbav:"response_body,omitempty"`
	ResponseStatus int       `bson:"response_status,omitempty" dynamodbav:"response_status,omitempty"`
	CreatedAt      time.Time `bson:"created_at" dynamodbav:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" dynamodbav:"updated_at"`
	ExpiresAt      int64     `bson:"expires_at" dynamodbav:"expires_at"` // TTL epoch seconds
	Note           string    `bson:"note,omitempty" dynamodbav:"note,omitempty"`
	RequestHash    string    `bson:"request_hash,omitempty" dynamodbav:"request_hash,omitempty"`
}

func (r Record) EntityID() string { return r.Key }

// Expired reports whether the record is past its TTL at now. DynamoDB TTL
// deletion is lazy, so expired items may still be returned by reads.
func (r Record) Expired(now time.Time) bool {
	return r.ExpiresAt > 0 && now.Unix() >= r.ExpiresAt
}
