package engine

import (
	"compress/bzip2"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/facetag/facetag/internal/logging"
)

// Download fetches any missing model files into dir, extracting them from
// dlib's bzip2 archives. Files already present are left untouched.
func Download(dir string) error {
	log := logging.Component("engine")

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create models directory: %w", err)
	}

	client := &http.Client{Timeout: 10 * time.Minute}

	for _, model := range Models {
		target := filepath.Join(dir, model.Name)
		if _, err := os.Stat(target); err == nil {
			log.Infof("Model %s already exists, skipping", model.Name)
			continue
		}

		log.Infof("Downloading %s...", model.Name)
		if err := downloadAndExtract(client, model.URL, target); err != nil {
			return fmt.Errorf("failed to download %s: %w", model.Name, err)
		}
		log.Infof("Successfully downloaded %s", model.Name)
	}

	return nil
}

func downloadAndExtract(client *http.Client, url, target string) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	out, err := os.Create(target)
	if err != nil {
		return err
	}

	// A half-written model file would pass the presence check on the next
	// run, so remove it when the copy fails.
	if _, err := io.Copy(out, bzip2.NewReader(resp.Body)); err != nil {
		out.Close()
		os.Remove(target)
		return err
	}
	return out.Close()
}
