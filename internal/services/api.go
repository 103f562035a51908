package services

import (
	"context"
	"fmt"
	"time"

	"imageworld/config"
	"imageworld/internal/auth"
	"imageworld/internal/clients/huggingface"
	"imageworld/internal/gallery"
	"imageworld/internal/imagegen"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type PostSaver interface {
	Save(ctx context.Context, in gallery.SaveInput) (*gallery.Post, error)
}

type PostStore interface {
	PostSaver
	ListPublic(ctx context.Context, limit, offset int) ([]gallery.Post, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]gallery.Post, error)
}

type ModelInfoSource interface {
	GetModelInfo(ctx context.Context) (huggingface.ModelInfo, error)
}

type Dependencies struct {
	Bridge  *imagegen.Bridge
	Auth    *auth.Service
	Gallery PostStore
	Models  ModelInfoSource
	Hub     *Hub
	Saves   *SaveQueue
	// BlobDir is served under /blobs when blobs are kept on local disk.
	BlobDir string
}

type Api struct {
	server  *fiber.App
	bridge  *imagegen.Bridge
	auth    *auth.Service
	gallery PostStore
	models  ModelInfoSource
	hub     *Hub
	saves   *SaveQueue

	port           string
	allowedOrigins string
	session        config.SessionConfig
	blobDir        string
}

func NewApi(cfg config.ApiConfig, session config.SessionConfig, deps Dependencies) *Api {
	if cfg.AllowedOrigins == "" {
		cfg.AllowedOrigins = "*"
	}
	if session.CookieName == "" {
		session.CookieName = "session"
	}

	a := &Api{
		server: fiber.New(fiber.Config{
			BodyLimit:             cfg.BodyLimit,
			JSONEncoder:           json.Marshal,
			JSONDecoder:           json.Unmarshal,
			DisableStartupMessage: true,
		}),
		bridge:         deps.Bridge,
		auth:           deps.Auth,
		gallery:        deps.Gallery,
		models:         deps.Models,
		hub:            deps.Hub,
		saves:          deps.Saves,
		port:           cfg.Port,
		allowedOrigins: cfg.AllowedOrigins,
		session:        session,
		blobDir:        deps.BlobDir,
	}

	allowCredentials := a.allowedOrigins != "*"

	a.server.Use(recover.New())
	a.server.Use(RequestLogger())
	a.server.Use(compress.New())
	a.server.Use(cors.New(cors.Config{
		AllowOrigins:     a.allowedOrigins,
		AllowCredentials: allowCredentials,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Content-Type,Authorization,Accept,Origin",
	}))

	a.addRoutes()
	return a
}

func (a *Api) Start() error {
	log.With("component", "api").Info("http listening", "port", a.port)
	return a.server.Listen(fmt.Sprint(":", a.port))
}

func (a *Api) Shutdown() error {
	return a.server.ShutdownWithTimeout(10 * time.Second)
}

func (a *Api) addRoutes() {
	a.server.Add("GET", "/health", a.Health())
	a.server.Add("GET", "/api/model", a.ModelInfo())

	a.server.Add("POST", "/api/auth/register", a.Register())
	a.server.Add("POST", "/api/auth/signin", a.SignIn())
	a.server.Add("POST", "/api/auth/signout", a.SignOut())
	a.server.Add("GET", "/api/auth/session", a.RequireSession(), a.CurrentSession())

	a.server.Add("POST", "/api/generate-image", a.RequireSession(), a.GenerateImage())

	a.server.Add("GET", "/api/posts", a.ListPublicPosts())
	a.server.Add("POST", "/api/posts", a.RequireSession(), a.CreatePost())
	a.server.Add("GET", "/api/users/me/posts", a.RequireSession(), a.ListMyPosts())

	if a.blobDir != "" {
		a.server.Static("/blobs", a.blobDir)
	}

	// websocket connection
	a.server.Use("/ws", a.WsUpgrade())
	a.server.Get("/ws/:id", a.RequireSession(), a.Notifications())
}
