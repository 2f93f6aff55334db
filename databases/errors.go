package databases

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNoDocuments is returned when a lookup or targeted update matches nothing
	ErrNoDocuments = mongo.ErrNoDocuments
	// ErrStaleWrite means the document version moved on since it was read
	ErrStaleWrite = errors.New("document was modified concurrently, reload and retry")
	// ErrDuplicateKey is returned when a unique index rejects an insert
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrInvalidID is returned for ids that are not hex encoded ObjectIDs
	ErrInvalidID = errors.New("invalid id")
)

func objectID(hex string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}
