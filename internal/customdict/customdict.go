package customdict

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// CustomDict wraps a Redis set holding user-supplied vocabulary words. Words
// in the set are treated as correctly spelled by the decoder.
type CustomDict struct {
	client *redis.Client
	key    string
}

// New creates a CustomDict on the provided Redis client.
func New(client *redis.Client) *CustomDict {
	return &CustomDict{client: client, key: "spellcorrect:custom_words"}
}

// Add inserts a word into the custom dictionary.
func (cd *CustomDict) Add(word string) error {
	return cd.client.SAdd(context.Background(), cd.key, word).Err()
}

// Remove deletes a word from the custom dictionary.
func (cd *CustomDict) Remove(word string) error {
	return cd.client.SRem(context.Background(), cd.key, word).Err()
}

// All returns every word stored in the custom dictionary.
func (cd *CustomDict) All() ([]string, error) {
	return cd.client.SMembers(context.Background(), cd.key).Result()
}
