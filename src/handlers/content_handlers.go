package handlers

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
)

// ContentEndpointHandler serves stored image bytes and hands out short-lived
// signed upload URLs. Media storage itself lives in the bucket; this is the
// only part of the service that touches it.
func ContentEndpointHandler(ctx context.Context, gcpStorage *storage.Client, bucket string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			switch r.URL.Path {
			case "/content/image":
				ServeImage(ctx, w, r, gcpStorage, bucket)
			case "/content/upload":
				GenerateAndSendSignedUrl(ctx, w, r, gcpStorage, bucket)
			}
		}
	})
}

func GenerateAndSendSignedUrl(ctx context.Context, w http.ResponseWriter, r *http.Request, gcpStorage *storage.Client, bucket string) {
	object := r.URL.Query().Get("id")

	opts := &storage.SignedURLOptions{
		Scheme: storage.SigningSchemeV4,
		Method: "PUT",
		Headers: []string{
			"Content-Type:application/octet-stream",
		},
		Expires: time.Now().UTC().Add(3 * time.Minute),
	}

	url, err := gcpStorage.Bucket(bucket).SignedURL(object, opts)
	if err != nil {
		log.Printf("Unable to generate signed URL for upload link: %v", err)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(url))
}

func ServeImage(ctx context.Context, w http.ResponseWriter, r *http.Request, gcpStorage *storage.Client, bucket string) {
	imageId := r.URL.Query().Get("id")

	obj := gcpStorage.Bucket(bucket).Object(imageId)
	imageReader, err := obj.NewReader(ctx)
	if err != nil {
		log.Printf("%v", err)
		return
	}
	defer imageReader.Close()

	imageBytes, err := io.ReadAll(imageReader)
	if err != nil {
		log.Printf("%v", err)
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Write(imageBytes)
}
