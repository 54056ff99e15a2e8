package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/univent/univent-be/config"
	"github.com/univent/univent-be/controllers"
	"github.com/univent/univent-be/db"
	"github.com/univent/univent-be/db/redisstore"
	"github.com/univent/univent-be/db/sqlite"
	"github.com/univent/univent-be/routes"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded, using process environment")
	}

	app := &cli.App{
		Name:           "univent-be",
		Usage:          "anonymous campus forum backend",
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			newServeCommand(),
			newMigrateCommand(),
			newSeedCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatalln("error", err)
	}
}

func newServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the API server",
		Action: func(c *cli.Context) error {
			return serve(c.Context)
		},
	}
}

func newMigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply pending database migrations",
		Action: func(c *cli.Context) error {
			cfg := config.Load()
			database, err := sqlite.Open(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer database.Close()
			if err := sqlite.Migrate(database.GetSQLDB()); err != nil {
				return err
			}
			log.Println("migrations applied")
			return nil
		},
	}
}

func newSeedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "populate the database with demo users and posts",
		Action: func(c *cli.Context) error {
			cfg := config.Load()
			database, err := sqlite.Open(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer database.Close()
			if err := sqlite.Migrate(database.GetSQLDB()); err != nil {
				return err
			}
			return db.Seed(c.Context, database)
		},
	}
}

func serve(ctx context.Context) error {
	cfg := config.Load()

	database, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := sqlite.Migrate(database.GetSQLDB()); err != nil {
		return err
	}

	var sessionDB db.SessionDatabase = database
	if cfg.RedisURL != "" {
		redisSessions, err := redisstore.Open(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisSessions.Close()
		sessionDB = redisSessions
		log.Println("using redis session store")
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	if len(cfg.FEOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.FEOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	channelController, err := controllers.NewChannelController(ctx, database)
	if err != nil {
		return err
	}

	routes.AddHealthCheckRoutes(&r.RouterGroup)
	routes.AddUserRoutes(&r.RouterGroup, database, sessionDB, cfg)
	routes.AddSessionRoutes(&r.RouterGroup, database, sessionDB, cfg)
	routes.AddChannelRoutes(&r.RouterGroup, channelController)
	routes.AddPostRoutes(&r.RouterGroup, database, sessionDB, channelController, cfg)
	routes.AddFeedRoutes(&r.RouterGroup, database, sessionDB, cfg)
	routes.AddAdminRoutes(&r.RouterGroup, database, sessionDB, cfg)

	return r.Run(":" + cfg.Port)
}
