// Package app wires repositories, services and handlers into a gin engine.
package app

import (
	"context"
	"fmt"
	"net/http"

	"sanogestion/internal/config"
	"sanogestion/internal/handler"
	"sanogestion/internal/middleware"
	"sanogestion/internal/model"
	"sanogestion/internal/repository"
	"sanogestion/internal/service"
	"sanogestion/internal/session"
	"sanogestion/internal/storage"
	"sanogestion/internal/websocket"
	"sanogestion/pkg/response"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// App holds the assembled application.
type App struct {
	Engine    *gin.Engine
	Hub       *websocket.Hub
	Sessions  *session.Store
	Personnel repository.PersonnelRepository
	cfg       *config.Config
}

// New builds the application on an opened, migrated database.
func New(cfg *config.Config, db *gorm.DB) (*App, error) {
	files, err := storage.NewFileStore(cfg.Upload.Dir, cfg.Upload.MaxBytes)
	if err != nil {
		return nil, fmt.Errorf("upload store: %w", err)
	}

	hub := websocket.NewHub(cfg.Origins)
	sessions := session.NewStore(cfg.Session.IdleTimeout)
	sessions.OnRevoke(hub.DisconnectPersonnel)
	codec := session.NewCodec(cfg.Session.Secret, cfg.IsRelease())

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	personnelRepo := repository.NewPersonnelRepository(db)
	rapportRepo := repository.NewRapportRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	journalService := service.NewJournalService(repository.NewJournalRepository(db), hub)
	authService := service.NewAuthService(personnelRepo, activityRepo, sessions)
	dashboardService := service.NewDashboardService(repository.NewDashboardRepository(db), personnelRepo)

	entities := handler.EntityServices{
		Personnel: service.NewPersonnelService(
			repository.NewEntityRepository[model.Personnel](db, repository.PersonnelSchema),
			rapportRepo, files, sessions, journalService, txManager),
		Trading: service.NewTradingService(
			repository.NewEntityRepository[model.Trading](db, repository.VenteSchema), journalService, txManager),
		Academy: service.NewAcademyService(
			repository.NewEntityRepository[model.Academy](db, repository.VenteSchema), journalService, txManager),
		Digital: service.NewDigitalService(
			repository.NewEntityRepository[model.Digital](db, repository.VenteSchema), journalService, txManager),
		Materiel: service.NewMaterielService(
			repository.NewEntityRepository[model.Materiel](db, repository.MaterielSchema), journalService, txManager),
		Finance: service.NewFinanceService(
			repository.NewEntityRepository[model.Finance](db, repository.FinanceSchema), journalService, txManager),
		Projet: service.NewProjetService(
			repository.NewEntityRepository[model.Projet](db, repository.InitiativeSchema), journalService, txManager),
		Evenementiel: service.NewEvenementielService(
			repository.NewEntityRepository[model.Evenementiel](db, repository.InitiativeSchema), journalService, txManager),
		Facture: service.NewFactureService(
			repository.NewEntityRepository[model.Facture](db, repository.FactureSchema), journalService, txManager),
		ProcesVerbal: service.NewProcesVerbalService(
			repository.NewEntityRepository[model.ProcesVerbal](db, repository.ProcesVerbalSchema),
			repository.NewParticipantRepository(db), personnelRepo, journalService, txManager),
		Dashboard: dashboardService,
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.Origins) > 0 {
		corsConfig.AllowOrigins = cfg.Origins
	} else {
		corsConfig.AllowOriginFunc = func(string) bool { return false }
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.Result(response.StatusNotFound, http.StatusNotFound, "Page introuvable.", ""))
	})

	root := router.Group("", middleware.Authenticate(sessions, codec, authService))
	handler.NewAuthHandler(authService, codec).RegisterRoutes(root)
	handler.NewDashboardHandler(dashboardService).RegisterRoutes(root)
	handler.NewJournalHandler(journalService, service.NewActivityService(activityRepo), hub).RegisterRoutes(root)
	handler.NewRapportHandler(service.NewRapportService(rapportRepo, files, journalService, txManager), files.MaxBytes()).RegisterRoutes(root)
	handler.RegisterEntities(root, entities)

	return &App{
		Engine:    router,
		Hub:       hub,
		Sessions:  sessions,
		Personnel: personnelRepo,
		cfg:       cfg,
	}, nil
}

// Bootstrap creates the default administrator when the table has none.
func (a *App) Bootstrap(ctx context.Context) error {
	_, err := service.EnsureAdministrator(ctx, a.Personnel, a.cfg.Admin)
	return err
}
