// Package mongostore implements store.Store on MongoDB. Documents use the
// string ids generated by the store as _id, so ids stay opaque to callers
// regardless of backend.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangang/taskhub/backend/internal/config"
	"github.com/huangang/taskhub/backend/internal/store"
	"github.com/huangang/taskhub/backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection    = "users"
	projectsCollection = "projects"
	tasksCollection    = "tasks"
)

// Store implements store.Store. A Store returned by WithinTx carries the
// session of the running transaction and binds every call to it.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	sess   mongo.Session
	// transactions is false on a standalone server, which rejects them.
	transactions bool

	users    *userStore
	projects *projectStore
	tasks    *taskStore
}

// Connect dials the deployment, verifies it with a ping and ensures indexes.
func Connect(ctx context.Context, cfg *config.DatabaseConfig) (*Store, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.DSN))
	if err != nil {
		return nil, fmt.Errorf("failed to connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	s := New(client, cfg.Name)
	s.transactions, err = detectTransactions(ctx, client)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	if !s.transactions {
		logger.Warn().Msg("MongoDB is a standalone server; writes run without transactions and the orphan sweeper cleans up after concurrent deletes")
	}

	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// detectTransactions asks the server which topology it belongs to.
func detectTransactions(ctx context.Context, client *mongo.Client) (bool, error) {
	var hello bson.M
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello); err != nil {
		return false, fmt.Errorf("failed to query mongodb topology: %w", err)
	}
	return supportsTransactions(hello), nil
}

// supportsTransactions reports whether a hello reply comes from a replica
// set member or a mongos router.
func supportsTransactions(hello bson.M) bool {
	if name, ok := hello["setName"].(string); ok && name != "" {
		return true
	}
	msg, _ := hello["msg"].(string)
	return msg == "isdbgrid"
}

// New wraps an already connected client. Transactions stay off; Connect
// turns them on after checking the deployment.
func New(client *mongo.Client, database string) *Store {
	return newStore(client, client.Database(database), nil)
}

func newStore(client *mongo.Client, db *mongo.Database, sess mongo.Session) *Store {
	s := &Store{client: client, db: db, sess: sess, transactions: sess != nil}
	s.users = &userStore{coll: db.Collection(usersCollection), bind: s.bind}
	s.projects = &projectStore{coll: db.Collection(projectsCollection), bind: s.bind}
	s.tasks = &taskStore{
		coll:     db.Collection(tasksCollection),
		projects: db.Collection(projectsCollection),
		bind:     s.bind,
	}
	return s
}

func (s *Store) Users() store.UserStore       { return s.users }
func (s *Store) Projects() store.ProjectStore { return s.projects }
func (s *Store) Tasks() store.TaskStore       { return s.tasks }

func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}},
		},
		projectsCollection: {
			{Keys: bson.D{{Key: "owner", Value: 1}}},
			{Keys: bson.D{{Key: "members", Value: 1}}},
		},
		tasksCollection: {
			{Keys: bson.D{{Key: "projectId", Value: 1}}},
		},
	}
	for name, models := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	return nil
}

// WithinTx runs fn inside a multi-document transaction on replica sets and
// sharded clusters. On a standalone server fn runs directly against the
// store, so its writes are neither atomic nor rolled back on error.
func (s *Store) WithinTx(ctx context.Context, fn func(tx store.Store) error) error {
	if s.sess != nil || !s.transactions {
		return fn(s)
	}

	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(newStore(s.client, s.db, sess))
	})
	return err
}

// bind attaches the transaction session, if any, to ctx.
func (s *Store) bind(ctx context.Context) context.Context {
	if s.sess == nil {
		return ctx
	}
	return mongo.NewSessionContext(ctx, s.sess)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func newID() string {
	return uuid.NewString()
}

// translate maps driver errors onto the store sentinels.
func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w: %v", op, store.ErrConflict, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
