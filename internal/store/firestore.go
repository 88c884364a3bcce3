package store

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"moodDiaryAPI/internal/types/entry"
	"moodDiaryAPI/internal/types/streak"
)

// FirestoreStore keeps entries at accounts/{accountID}/entries/{dateKey} and
// the streak cache at accounts/{accountID}/meta/streak. Using the day key as
// the document ID makes every write an upsert and enforces one entry per day.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore initializes the Firestore client. It first attempts to
// use credentials from the FIREBASE_SERVICE_ACCOUNT_JSON environment
// variable (Base64 encoded) and falls back to a local service account key
// file.
func NewFirestoreStore(ctx context.Context, localFilePath string) (*FirestoreStore, error) {
	var opt option.ClientOption

	encodedCreds := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON")
	if encodedCreds != "" {
		decoded, err := base64.StdEncoding.DecodeString(encodedCreds)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 firebase credentials from FIREBASE_SERVICE_ACCOUNT_JSON: %v", err)
		}
		opt = option.WithCredentialsJSON(decoded)
		log.Println("Firestore: Initializing from FIREBASE_SERVICE_ACCOUNT_JSON environment variable.")
	} else {
		if _, err := os.Stat(localFilePath); os.IsNotExist(err) {
			return nil, fmt.Errorf("local firebase file not found: %s, and FIREBASE_SERVICE_ACCOUNT_JSON environment variable is not set", localFilePath)
		}
		opt = option.WithCredentialsFile(localFilePath)
		log.Printf("Firestore: Initializing from local file: %s.", localFilePath)
	}

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %v", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firestore client: %v", err)
	}

	return &FirestoreStore{client: client}, nil
}

func (s *FirestoreStore) entries(accountID string) *firestore.CollectionRef {
	return s.client.Collection("accounts").Doc(accountID).Collection("entries")
}

func (s *FirestoreStore) streakDoc(accountID string) *firestore.DocumentRef {
	return s.client.Collection("accounts").Doc(accountID).Collection("meta").Doc("streak")
}

func (s *FirestoreStore) FetchRange(ctx context.Context, accountID, startKey, endKey string) ([]entry.MoodEntry, error) {
	query := s.entries(accountID).
		Where("date", ">=", startKey).
		Where("date", "<=", endKey).
		OrderBy("date", firestore.Asc)
	return s.collect(ctx, query.Documents(ctx))
}

func (s *FirestoreStore) FetchAll(ctx context.Context, accountID string) ([]entry.MoodEntry, error) {
	query := s.entries(accountID).OrderBy("date", firestore.Asc)
	return s.collect(ctx, query.Documents(ctx))
}

func (s *FirestoreStore) collect(ctx context.Context, it *firestore.DocumentIterator) ([]entry.MoodEntry, error) {
	defer it.Stop()

	var out []entry.MoodEntry
	for {
		doc, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("fetch entries: %w: %w", ErrUnavailable, err)
		}
		var e entry.MoodEntry
		if err := doc.DataTo(&e); err != nil {
			log.Printf("Firestore: skipping malformed entry document %s: %v", doc.Ref.Path, err)
			continue
		}
		out = append(out, e)
	}
}

func (s *FirestoreStore) GetEntry(ctx context.Context, accountID, dateKey string) (*entry.MoodEntry, error) {
	doc, err := s.entries(accountID).Doc(dateKey).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w: %w", ErrUnavailable, err)
	}
	var e entry.MoodEntry
	if err := doc.DataTo(&e); err != nil {
		return nil, fmt.Errorf("decode entry %s: %w", dateKey, err)
	}
	return &e, nil
}

func (s *FirestoreStore) UpsertEntry(ctx context.Context, accountID string, e *entry.MoodEntry) error {
	if _, err := s.entries(accountID).Doc(e.DateKey).Set(ctx, e); err != nil {
		return fmt.Errorf("upsert entry: %w: %w", ErrUnavailable, err)
	}
	return nil
}

func (s *FirestoreStore) DeleteEntry(ctx context.Context, accountID, dateKey string) error {
	ref := s.entries(accountID).Doc(dateKey)
	if _, err := ref.Get(ctx); status.Code(err) == codes.NotFound {
		return ErrNotFound
	} else if err != nil {
		return fmt.Errorf("delete entry: %w: %w", ErrUnavailable, err)
	}
	if _, err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("delete entry: %w: %w", ErrUnavailable, err)
	}
	return nil
}

func (s *FirestoreStore) ReadStreakCache(ctx context.Context, accountID string) (*streak.Cache, error) {
	doc, err := s.streakDoc(accountID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read streak cache: %w: %w", ErrUnavailable, err)
	}
	var c streak.Cache
	if err := doc.DataTo(&c); err != nil {
		return nil, fmt.Errorf("decode streak cache: %w", err)
	}
	return &c, nil
}

func (s *FirestoreStore) WriteStreakCache(ctx context.Context, accountID string, c *streak.Cache) error {
	if _, err := s.streakDoc(accountID).Set(ctx, c); err != nil {
		return fmt.Errorf("write streak cache: %w: %w", ErrUnavailable, err)
	}
	return nil
}

func (s *FirestoreStore) Ping(ctx context.Context) error {
	it := s.client.Collection("accounts").Limit(1).Documents(ctx)
	defer it.Stop()
	if _, err := it.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("firestore ping: %w: %w", ErrUnavailable, err)
	}
	return nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
