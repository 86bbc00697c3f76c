package main

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"contendo/config"
	"contendo/controllers"
	"contendo/db"
	"contendo/middlewares"
	"contendo/routes"
	"contendo/services"
	"contendo/utils"
	"contendo/websocket"
)

func main() {
	cfg, err := config.LoadConfig("./config/config.yml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Database.URI == "" {
		log.Fatal("No MongoDB URI configured (set MONGODB_URI or database.uri)")
	}
	if err := db.ConnectMongoDB(cfg.Database.URI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Println("Connected to MongoDB")

	ctx := context.Background()

	providers, err := buildProviders(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to build providers: %v", err)
	}
	generator := services.NewFallbackGenerator(providers, time.Duration(cfg.Debate.CallTimeoutSec)*time.Second)

	store := db.NewMongoDebateStore()
	limiter := db.NewMongoRateLimiter(cfg.Debate.DailyLimit)
	debateService := services.NewDebateService(store, limiter, generator, cfg)

	verifier, err := utils.NewCognitoVerifier(ctx, cfg.Cognito.Region)
	if err != nil {
		log.Fatalf("Failed to build token verifier: %v", err)
	}

	router := setupRouter(cfg, debateService, store, verifier)
	port := strconv.Itoa(cfg.Server.Port)
	log.Printf("Server starting on port %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildProviders assembles the fallback chain in the configured priority
// order. Providers without credentials stay in the chain but report
// themselves unavailable.
func buildProviders(ctx context.Context, cfg *config.Config) ([]services.Provider, error) {
	gemini, err := services.NewGeminiProvider(ctx, cfg.Gemini)
	if err != nil {
		return nil, err
	}
	openai := services.NewOpenAIProvider(cfg.OpenAI)

	byName := map[string]services.Provider{
		gemini.Name(): gemini,
		openai.Name(): openai,
	}

	var providers []services.Provider
	for _, name := range cfg.Debate.ProviderOrder {
		if p, ok := byName[name]; ok {
			providers = append(providers, p)
			delete(byName, name)
		} else {
			log.Printf("unknown provider %q in providerOrder, ignoring", name)
		}
	}
	return providers, nil
}

func setupRouter(cfg *config.Config, debateService *services.DebateService, store *db.MongoDebateStore, verifier *utils.CognitoVerifier) *gin.Engine {
	if cfg.Server.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.CorsOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	dc := controllers.NewDebateController(debateService, store, cfg.Server.Production)

	auth := router.Group("/")
	auth.Use(middlewares.AuthMiddleware(verifier))
	{
		routes.SetupDebateRoutes(auth, dc)
		auth.GET("/ws/debates/:id", websocket.DebateStatusHandler(store))
	}

	return router
}
