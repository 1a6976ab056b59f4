package bootstrap

import (
	"context"
	"log"
	"time"

	"github.com/admithub/backend-go/app/controllers"
	"github.com/admithub/backend-go/internal/auth"
	"github.com/admithub/backend-go/internal/config"
	"github.com/admithub/backend-go/internal/database"
	"github.com/admithub/backend-go/internal/dialogue"
	"github.com/admithub/backend-go/internal/knowledge"
	"github.com/admithub/backend-go/internal/logger"
	"github.com/admithub/backend-go/internal/nlu"
	"github.com/admithub/backend-go/internal/repository"
	"github.com/admithub/backend-go/internal/services"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// App encapsulates lifecycle resources that need to be cleaned up on shutdown.
type App struct {
	JWTService   *auth.JWTService
	cleanupTasks []func() error
	watcher      *services.CorpusWatcher
}

// Init bootstraps configuration, logger, the inquiry pipeline and shared
// infrastructure components required by the Beego application.
func Init() (*App, error) {
	// Load environment variables from .env if present (non-fatal if missing).
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize structured logger.
	if err := logger.InitLogger(); err != nil {
		return nil, err
	}

	// Load dynamic configuration.
	if err := config.LoadConfig(); err != nil {
		return nil, err
	}
	cfg := config.AppConfig

	app := &App{}
	ctx := context.Background()

	// 可选的持久化层
	var repo repository.InteractionRepository
	if cfg.Database.Enabled {
		db, err := database.InitDB()
		if err != nil {
			logger.Warn("database unavailable, interaction logging disabled", zap.Error(err))
		} else {
			repo = repository.NewInteractionRepository(db)
			app.cleanupTasks = append(app.cleanupTasks, database.CloseDB)
		}
	}

	if cfg.Redis.Enabled {
		if _, err := database.InitRedis(); err != nil {
			logger.Warn("redis unavailable, embedding cache disabled", zap.Error(err))
		} else {
			app.cleanupTasks = append(app.cleanupTasks, database.CloseRedis)
		}
	}

	// 嵌入向量生成器
	var embedder knowledge.Embedder
	switch cfg.Knowledge.Embedding.Provider {
	case "openai":
		embedder = knowledge.NewOpenAIEmbedder(cfg.Knowledge.Embedding.OpenAIKey, cfg.Knowledge.Embedding.Model)
	default:
		embedder = knowledge.NewLocalEmbedder(cfg.Knowledge.Embedding.Dimensions)
	}
	embedder = knowledge.NewCachedEmbedder(embedder, database.RedisClient,
		time.Duration(cfg.Knowledge.Embedding.CacheTTL)*time.Second)

	// 向量存储
	var store knowledge.VectorStore
	if cfg.Knowledge.VectorStore.Provider == "milvus" {
		milvusStore, err := knowledge.NewMilvusVectorStore(knowledge.MilvusOptions{
			Address:    cfg.Knowledge.VectorStore.Milvus.Address,
			Username:   cfg.Knowledge.VectorStore.Milvus.Username,
			Password:   cfg.Knowledge.VectorStore.Milvus.Password,
			Collection: cfg.Knowledge.VectorStore.Milvus.Collection,
			Database:   cfg.Knowledge.VectorStore.Milvus.Database,
			VectorSize: cfg.Knowledge.VectorStore.Milvus.VectorSize,
			UseTLS:     cfg.Knowledge.VectorStore.Milvus.TLS,
		})
		if err != nil {
			logger.Warn("milvus unavailable, falling back to in-memory store", zap.Error(err))
			store = knowledge.NewMemoryVectorStore()
		} else {
			store = milvusStore
		}
	} else {
		store = knowledge.NewMemoryVectorStore()
	}

	retriever := knowledge.NewRetriever(embedder, store, knowledge.RetrieverOptions{
		TopK:               cfg.Retrieval.TopK,
		RelevanceThreshold: cfg.Retrieval.RelevanceThreshold,
	})

	// 语料加载
	intents, err := nlu.NewIntentStore(cfg.NLU.IntentsPath)
	if err != nil {
		return nil, err
	}
	corpus, err := knowledge.NewCorpusStore(cfg.Knowledge.CorpusPath)
	if err != nil {
		return nil, err
	}

	classifier := nlu.NewClassifier(nlu.ClassifierOptions{
		ConfidenceThreshold: cfg.NLU.ConfidenceThreshold,
		MaxVocabulary:       cfg.NLU.MaxVocabulary,
		SmoothingAlpha:      cfg.NLU.SmoothingAlpha,
	})
	composer := dialogue.NewComposer(dialogue.ComposerOptions{
		MaxResponseLength: cfg.Dialogue.MaxResponseLength,
		RandomSeed:        cfg.Dialogue.RandomSeed,
	})
	contexts := dialogue.NewContextStore(cfg.Dialogue.ContextWindow)

	trainingService := services.NewTrainingService(intents, classifier)
	knowledgeService := services.NewKnowledgeService(corpus, retriever)
	assistantService := services.NewAssistantService(classifier, retriever, composer, contexts, repo)
	analyticsService := services.NewAnalyticsService(repo)
	followUpService := services.NewFollowUpService(cfg.SMTP, repo, nil)

	// 启动时训练分类器并建立向量索引
	if err := trainingService.Train(); err != nil {
		return nil, err
	}
	if err := knowledgeService.Reindex(ctx); err != nil {
		return nil, err
	}

	// 语料热重载
	if cfg.Knowledge.WatchCorpus {
		watcher, err := services.NewCorpusWatcher(trainingService, knowledgeService,
			cfg.NLU.IntentsPath, cfg.Knowledge.CorpusPath)
		if err != nil {
			logger.Warn("corpus watcher unavailable", zap.Error(err))
		} else {
			watcher.Start(ctx)
			app.watcher = watcher
		}
	}

	app.JWTService = auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, 24*time.Hour)

	controllers.SetRegistry(&controllers.ServiceRegistry{
		Assistant: assistantService,
		Training:  trainingService,
		Knowledge: knowledgeService,
		Analytics: analyticsService,
		FollowUp:  followUpService,
		JWT:       app.JWTService,
	})

	logger.Info("application bootstrapped",
		zap.String("env", cfg.Server.Env),
		zap.String("embedding_provider", cfg.Knowledge.Embedding.Provider),
		zap.String("vector_store", cfg.Knowledge.VectorStore.Provider),
		zap.Bool("persistence", repo != nil))
	return app, nil
}

// Shutdown releases resources in reverse initialization order.
func (a *App) Shutdown() {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	for i := len(a.cleanupTasks) - 1; i >= 0; i-- {
		if err := a.cleanupTasks[i](); err != nil {
			logger.Error("cleanup task failed", zap.Error(err))
		}
	}
	logger.Sync()
}
