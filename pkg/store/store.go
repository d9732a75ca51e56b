// Package store persists generated personas in Redis.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ethpandaops/persona/pkg/observability"
	"github.com/ethpandaops/persona/pkg/persona"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	personaKeyPrefix = "persona:" // {prefix}:persona:{userID} -> latest persona JSON
	indexKey         = "personas" // {prefix}:personas -> sorted set of user ids
	runKeyPrefix     = "run:"     // {prefix}:run:{runID} -> JSON list of the run's personas
)

var (
	// ErrPersonaNotFound is returned when no persona is stored for a user
	ErrPersonaNotFound = errors.New("persona not found")
	// ErrRunNotFound is returned when no personas are stored for a run
	ErrRunNotFound = errors.New("run not found")
)

// Store persists personas. Persistence is a caller concern; the generator never uses it.
type Store interface {
	// Save stores personas as the latest for each user and as the snapshot of runID
	Save(ctx context.Context, runID string, personas []persona.Persona) error
	// Get returns the latest persona stored for a user
	Get(ctx context.Context, userID string) (*persona.Persona, error)
	// List returns every user id with a stored persona in lexical order
	List(ctx context.Context) ([]string, error)
	// Run returns the personas saved under runID in generation order
	Run(ctx context.Context, runID string) ([]persona.Persona, error)
}

// KeyPrefixer adds a namespace to Redis keys.
type KeyPrefixer interface {
	PrefixKey(key string) string
}

type redisStore struct {
	log    logrus.FieldLogger
	redis  *redis.Client
	keys   KeyPrefixer
	runTTL time.Duration
}

// NewRedisStore creates a Redis-backed Store. Run snapshots expire after runTTL;
// zero keeps them forever.
func NewRedisStore(log logrus.FieldLogger, client *redis.Client, keys KeyPrefixer, runTTL time.Duration) Store {
	return &redisStore{
		log:    log.WithField("component", "persona_store"),
		redis:  client,
		keys:   keys,
		runTTL: runTTL,
	}
}

func (s *redisStore) Save(ctx context.Context, runID string, personas []persona.Persona) error {
	snapshot, err := json.Marshal(personas)
	if err != nil {
		return fmt.Errorf("failed to encode run %s: %w", runID, err)
	}

	pipe := s.redis.TxPipeline()

	for i := range personas {
		data, err := json.Marshal(&personas[i])
		if err != nil {
			return fmt.Errorf("failed to encode persona %s: %w", personas[i].UserID, err)
		}

		pipe.Set(ctx, s.keys.PrefixKey(personaKeyPrefix+personas[i].UserID), data, 0)
		pipe.ZAdd(ctx, s.keys.PrefixKey(indexKey), redis.Z{Score: 0, Member: personas[i].UserID})
	}

	pipe.Set(ctx, s.keys.PrefixKey(runKeyPrefix+runID), snapshot, s.runTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		observability.RecordPersonasStored("error", len(personas))
		s.log.WithError(err).WithField("run_id", runID).Error("Failed to save personas")

		return fmt.Errorf("failed to save run %s: %w", runID, err)
	}

	observability.RecordPersonasStored("success", len(personas))
	s.log.WithFields(logrus.Fields{
		"run_id":   runID,
		"personas": len(personas),
	}).Debug("Saved personas")

	return nil
}

func (s *redisStore) Get(ctx context.Context, userID string) (*persona.Persona, error) {
	data, err := s.redis.Get(ctx, s.keys.PrefixKey(personaKeyPrefix+userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrPersonaNotFound, userID)
		}

		return nil, fmt.Errorf("failed to get persona %s: %w", userID, err)
	}

	var p persona.Persona
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode persona %s: %w", userID, err)
	}

	return &p, nil
}

func (s *redisStore) List(ctx context.Context) ([]string, error) {
	ids, err := s.redis.ZRange(ctx, s.keys.PrefixKey(indexKey), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list personas: %w", err)
	}

	return ids, nil
}

func (s *redisStore) Run(ctx context.Context, runID string) ([]persona.Persona, error) {
	data, err := s.redis.Get(ctx, s.keys.PrefixKey(runKeyPrefix+runID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}

		return nil, fmt.Errorf("failed to get run %s: %w", runID, err)
	}

	var personas []persona.Persona
	if err := json.Unmarshal(data, &personas); err != nil {
		return nil, fmt.Errorf("failed to decode run %s: %w", runID, err)
	}

	return personas, nil
}
