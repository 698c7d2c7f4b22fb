// Command catalogstub serves a fake image listing compatible with the
// picsum.photos v2 feed. Useful for local development and demos when the
// real upstream is unreachable or rate limited.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/brianvoe/gofakeit/v7"
)

type stubImage struct {
	ID          string `json:"id"`
	Author      string `json:"author"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	URL         string `json:"url"`
	DownloadURL string `json:"download_url"`
}

func main() {
	addr := flag.String("addr", ":9080", "listen address")
	count := flag.Int("count", 30, "number of images in the listing")
	seed := flag.Uint64("seed", 0, "seed for deterministic output (0 = random)")
	flag.Parse()

	faker := gofakeit.New(*seed)
	images := make([]stubImage, 0, *count)
	for i := 0; i < *count; i++ {
		id := fmt.Sprintf("%d", i)
		width := faker.Number(2000, 6000)
		height := faker.Number(1500, 4000)
		images = append(images, stubImage{
			ID:          id,
			Author:      faker.Name(),
			Width:       width,
			Height:      height,
			URL:         fmt.Sprintf("https://unsplash.com/photos/%s", faker.LetterN(11)),
			DownloadURL: fmt.Sprintf("https://picsum.photos/id/%s/%d/%d", id, width, height),
		})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v2/list", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(images)
	})

	fmt.Fprintf(os.Stderr, "catalogstub listening on %s with %d images\n", *addr, len(images))
	if err := http.ListenAndServe(*addr, mux); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
