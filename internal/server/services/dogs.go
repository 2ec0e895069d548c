package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/28ori/Buddy4Life/internal/cache"
	"github.com/28ori/Buddy4Life/internal/common"
	"github.com/28ori/Buddy4Life/internal/logging"
	sc "github.com/28ori/Buddy4Life/internal/server/config"
)

const (
	breedCacheKey = "dog-breeds"
	breedCacheTTL = 24 * time.Hour
)

// Breed is one entry of the external dog-breed directory.
type Breed struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// DogService proxies the external dog-breed directory, memoizing the
// breed list so the upstream quota is not burned on every lookup.
type DogService struct {
	settings sc.DogAPI
	baseURL  string
	client   *http.Client
	cache    *cache.TTLCache
	logger   logging.Logger
}

func NewDogService(settings sc.DogAPI, logger logging.Logger) *DogService {
	return &DogService{
		settings: settings,
		baseURL:  "https://" + settings.Host,
		client:   &http.Client{Timeout: 10 * time.Second},
		cache:    cache.NewTTLCache(),
		logger:   logger,
	}
}

// ListBreeds returns the breed directory, served from cache when fresh.
func (s *DogService) ListBreeds(ctx context.Context) ([]Breed, error) {
	if cached, ok := s.cache.Get(breedCacheKey); ok {
		return cached.([]Breed), nil
	}

	breeds, err := s.fetchBreeds(ctx)
	if err != nil {
		s.logger.Error(ctx, "breed directory fetch failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	s.cache.Set(breedCacheKey, breeds, breedCacheTTL)
	return breeds, nil
}

// GetBreed returns a single directory entry by ID.
func (s *DogService) GetBreed(ctx context.Context, id int) (*Breed, error) {
	breeds, err := s.ListBreeds(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range breeds {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (s *DogService) fetchBreeds(ctx context.Context) ([]Breed, error) {
	url := s.baseURL + "/v1/breeds?limit=100"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error building request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", s.settings.Key)
	req.Header.Set("X-RapidAPI-Host", s.settings.Host)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling breed directory: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("breed directory returned status %d", resp.StatusCode)
	}

	var breeds []Breed
	if err := json.NewDecoder(resp.Body).Decode(&breeds); err != nil {
		return nil, fmt.Errorf("error decoding breed directory response: %w", err)
	}

	return breeds, nil
}
