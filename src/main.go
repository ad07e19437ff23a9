package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"cloud.google.com/go/storage"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"davidgram_services/src/feed"
	h "davidgram_services/src/handlers"
	"davidgram_services/src/inits"
	"davidgram_services/src/interactions"
	"davidgram_services/src/notifications"
	"davidgram_services/src/search"
)

func envOrDefault(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Print("No .env file found, relying on the environment")
	}

	// Postgres Initialization
	connString := envOrDefault("DATABASE_URL",
		fmt.Sprintf("user=%v password=%v host=%v port=%v dbname=%v",
			envOrDefault("PG_USER", "davidgram"),
			envOrDefault("PG_PASSWORD", "davidgram"),
			envOrDefault("PG_HOST", "0.0.0.0"),
			envOrDefault("PG_PORT", "5432"),
			envOrDefault("PG_DBNAME", "davidgram_db")))
	pg, err := inits.CreatePostgresPool(connString, ctx)
	if err != nil {
		log.Fatalf("Unable to create the postgres pool: %v", err)
	}
	defer pg.Pool.Close()

	if err := inits.InitTables(ctx, pg); err != nil {
		log.Fatalf("Unable to bootstrap the schema: %v", err)
	}

	// Redis Initialization
	rdb := redis.NewClient(&redis.Options{
		Addr:     envOrDefault("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	// OpenSearch Initialization
	var index *search.OpenSearchIndex
	osClient, err := inits.CreateOpenSearchClient(envOrDefault("OPENSEARCH_ADDR", "http://localhost:9200"))
	if err != nil {
		log.Printf("Unable to create the opensearch client, text search disabled: %v", err)
	} else {
		index = inits.InitOpenSearch(ctx, pg, osClient)
	}

	// Core components
	perUserLimit, err := strconv.Atoi(envOrDefault("FEED_PER_USER_LIMIT", "2"))
	if err != nil {
		perUserLimit = feed.DefaultPerUserLimit
	}
	assembler := feed.NewAssembler(pg, perUserLimit)
	trigger := notifications.NewTrigger(pg, rdb)
	guard := interactions.NewGuard(pg, trigger)
	searcher := search.NewSearcher(pg)

	// Server Starting String
	serverString := fmt.Sprintf("%v:%v", envOrDefault("HOST", "0.0.0.0"), envOrDefault("PORT", "2525"))

	// Route Register
	ensureValidToken := inits.EnsureValidToken()
	router := mux.NewRouter()

	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		welcomeString := fmt.Sprintln("Welcome to Davidgram Services.\nRequest one of the following routes to query data:\n /images/feed\n /images\n /images/search\n /notifications")
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(welcomeString))
	})

	router.Handle("/images/feed", ensureValidToken(h.FeedEndpointHandler(ctx, pg, assembler))).Methods(http.MethodGet)
	router.Handle("/images/search", ensureValidToken(h.HashtagSearchEndpointHandler(ctx, pg, searcher))).Methods(http.MethodGet)
	router.Handle("/images", ensureValidToken(h.ImagesEndpointHandler(ctx, pg, index))).Methods(http.MethodPost)
	router.Handle("/images/{image_id}", ensureValidToken(h.ImageDetailEndpointHandler(ctx, pg, guard, index))).
		Methods(http.MethodGet, http.MethodPut, http.MethodDelete)
	router.Handle("/images/{image_id}/likes", ensureValidToken(h.ImageLikesEndpointHandler(ctx, pg, guard))).
		Methods(http.MethodGet, http.MethodPost, http.MethodDelete)
	router.Handle("/images/{image_id}/comments", ensureValidToken(h.ImageCommentsEndpointHandler(ctx, pg, guard))).
		Methods(http.MethodGet, http.MethodPost)
	router.Handle("/images/{image_id}/comments/{comment_id}", ensureValidToken(h.ModerateCommentEndpointHandler(ctx, pg, guard))).
		Methods(http.MethodDelete)
	router.Handle("/comments/{comment_id}", ensureValidToken(h.CommentEndpointHandler(ctx, pg, guard))).
		Methods(http.MethodDelete)
	router.Handle("/users/me", ensureValidToken(h.UserEndpointHandler(ctx, pg))).Methods(http.MethodGet)
	router.Handle("/users/{user_id}/follow", ensureValidToken(h.FollowEndpointHandler(ctx, pg))).
		Methods(http.MethodPost, http.MethodDelete)
	router.Handle("/notifications", ensureValidToken(h.NotificationsEndpointHandler(ctx, pg))).
		Methods(http.MethodGet, http.MethodPatch)
	router.Handle("/search", ensureValidToken(h.TextSearchEndpointHandler(ctx, pg, index))).Methods(http.MethodGet)

	// GCS Initialization
	gcpStorage, err := storage.NewClient(ctx)
	if err != nil {
		log.Printf("Unable to create the storage client, content routes disabled: %v", err)
	} else {
		bucket := envOrDefault("GCS_BUCKET", "davidgram-user-images")
		router.PathPrefix("/content/").Handler(h.ContentEndpointHandler(ctx, gcpStorage, bucket)).Methods(http.MethodGet)
	}

	// Start Server
	fmt.Printf("Server is starting on %v...\n", serverString)
	err = http.ListenAndServe(serverString, router)
	if err != nil {
		fmt.Printf("Error starting the server: %v\n", err)
	}
}
