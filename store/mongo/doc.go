// Package mongo implements store.Store on the MongoDB Go driver v2.
// Suitable for document databases where each collection keeps the owning
// subject in a field of its own.
//
// The caller owns the *mongo.Client lifecycle unless the store was created
// with [Open]. Pass the client through the constructor:
//
//	import (
//	    "go.mongodb.org/mongo-driver/v2/mongo"
//	    "go.mongodb.org/mongo-driver/v2/mongo/options"
//	    mongostore "github.com/jozzer182/Yuva/store/mongo"
//	)
//
//	client, _ := mongo.Connect(options.Client().ApplyURI(uri))
//	store := mongostore.New(client, "app")
//
// Batch deletes always run inside a multi-document transaction, so the
// server must be a replica set or sharded cluster. A standalone server
// rejects the delete and the step is recorded as failed.
package mongo
