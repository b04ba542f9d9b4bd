// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package scholarseek

import (
	"log/slog"

	"github.com/poiesic/scholarseek/ai"
	"github.com/poiesic/scholarseek/ai/openai"
	"github.com/poiesic/scholarseek/httpapi"
	"github.com/poiesic/scholarseek/ingestion"
	"github.com/poiesic/scholarseek/search"
	"github.com/poiesic/scholarseek/storage"
	"github.com/poiesic/scholarseek/storage/badger"
	"github.com/poiesic/scholarseek/warehouse"
	"github.com/poiesic/scholarseek/warehouse/sqlite"
)

// App wires the warehouse, project storage, AI provider, and search
// pipeline into one unit with a single Close.
type App struct {
	warehouse    warehouse.Warehouse
	backend      *badger.Backend
	projectRepo  storage.ProjectRepository
	analysisRepo storage.AnalysisRepository
	provider     ai.AIProvider
	orchestrator *search.Orchestrator
	logger       *slog.Logger
}

// AppOption configures an App.
type AppOption func(*appOptions)

type appOptions struct {
	aiConfig  *ai.Config
	disableAI bool
}

// WithAIConfig sets the AI provider configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(config *ai.Config) AppOption {
	return func(o *appOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithoutAI disables the AI provider entirely. Search runs keyword-only
// and expansion, summaries, and evaluation are unavailable.
func WithoutAI() AppOption {
	return func(o *appOptions) {
		o.disableAI = true
	}
}

// NewApp opens the researcher warehouse at warehousePath (a SQLite file,
// or ":memory:") and project storage at storagePath (a Badger directory;
// empty means in-memory).
func NewApp(warehousePath, storagePath string, opts ...AppOption) (*App, error) {
	options := &appOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	store, err := sqlite.Open(warehousePath)
	if err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(storagePath, storagePath == "")
	if err != nil {
		store.Close()
		return nil, err
	}

	projectRepo := badger.NewProjectRepository(backend)
	analysisRepo := badger.NewAnalysisRepository(backend)

	var provider ai.AIProvider
	if !options.disableAI {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			backend.Close()
			store.Close()
			return nil, err
		}
	}

	orchestrator, err := search.NewOrchestrator(store, provider)
	if err != nil {
		if provider != nil {
			provider.Close()
		}
		backend.Close()
		store.Close()
		return nil, err
	}

	return &App{
		warehouse:    store,
		backend:      backend,
		projectRepo:  projectRepo,
		analysisRepo: analysisRepo,
		provider:     provider,
		orchestrator: orchestrator,
		logger:       slog.Default(),
	}, nil
}

func (a *App) Close() error {
	if a.provider != nil {
		if err := a.provider.Close(); err != nil {
			a.logger.Error("error closing AI provider", "err", err)
		}
	}

	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing project storage", "err", err)
		return err
	}

	if err := a.warehouse.Close(); err != nil {
		a.logger.Error("error closing warehouse", "err", err)
		return err
	}
	return nil
}

func (a *App) Warehouse() warehouse.Warehouse {
	return a.warehouse
}

func (a *App) ProjectRepository() storage.ProjectRepository {
	return a.projectRepo
}

func (a *App) AnalysisRepository() storage.AnalysisRepository {
	return a.analysisRepo
}

func (a *App) Orchestrator() *search.Orchestrator {
	return a.orchestrator
}

// NewLoader creates a corpus loader writing into the app's warehouse.
func (a *App) NewLoader(opts ...ingestion.Option) (*ingestion.Loader, error) {
	return ingestion.NewLoader(a.warehouse, a.provider, opts...)
}

// NewServer creates the HTTP API server backed by the app's components.
func (a *App) NewServer(opts ...httpapi.Option) (*httpapi.Server, error) {
	return httpapi.NewServer(a.orchestrator, a.warehouse, a.projectRepo, opts...)
}
