package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/samirrijal/waypath/internal/adapters/postgres"
	"github.com/samirrijal/waypath/internal/pkg/config"
	"github.com/samirrijal/waypath/internal/pkg/logging"
	"github.com/samirrijal/waypath/internal/pkg/poifeed"
)

// Manifest lists POI sources to load. Each source is a local path or an
// http(s) URL holding a POI array or a GeoJSON FeatureCollection.
type Manifest struct {
	Sources []Source `json:"sources"`
}

type Source struct {
	City string `json:"city"`
	URL  string `json:"url"`
}

const batchSize = 500

func main() {
	cfg, err := config.Load("waypath-poiloader")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if len(os.Args) < 2 {
		log.Fatal("usage: poiloader <manifest.json | pois.geojson> [city,city]")
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN(), 4)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()
	repo := postgres.NewPOIRepo(db)

	manifest, err := loadManifest(os.Args[1])
	if err != nil {
		log.Fatalf("manifest: %v", err)
	}

	cityFilter := map[string]bool{}
	if len(os.Args) > 2 {
		for _, c := range strings.Split(os.Args[2], ",") {
			cityFilter[strings.ToLower(strings.TrimSpace(c))] = true
		}
	}

	client := &http.Client{Timeout: 120 * time.Second}

	var wg sync.WaitGroup
	sem := make(chan struct{}, 4) // max 4 concurrent downloads

	for _, src := range manifest.Sources {
		if len(cityFilter) > 0 && !cityFilter[strings.ToLower(src.City)] {
			continue
		}

		wg.Add(1)
		go func(s Source) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := loadSource(ctx, repo, client, s); err != nil {
				slog.Error("load source failed", "city", s.City, "url", s.URL, "error", err)
			}
		}(src)
	}

	wg.Wait()
	slog.Info("poi load complete")
}

// loadManifest reads path as a manifest, or treats it as a single POI file
// when it holds no sources.
func loadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err == nil && len(m.Sources) > 0 {
		return &m, nil
	}
	return &Manifest{Sources: []Source{{URL: path}}}, nil
}

func loadSource(ctx context.Context, repo *postgres.POIRepo, client *http.Client, src Source) error {
	data, err := fetch(ctx, client, src.URL)
	if err != nil {
		return err
	}

	pois, skipped, err := poifeed.Decode(data)
	if err != nil {
		return err
	}

	for start := 0; start < len(pois); start += batchSize {
		end := min(start+batchSize, len(pois))
		if err := repo.UpsertBatch(ctx, pois[start:end]); err != nil {
			return fmt.Errorf("upsert batch at %d: %w", start, err)
		}
	}

	slog.Info("source loaded", "city", src.City, "url", src.URL, "pois", len(pois), "skipped", skipped)
	return nil
}

func fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return os.ReadFile(url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}
