package tests

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"

	dbadapter "taskmanager/internal/adapter/db"
	httpadapter "taskmanager/internal/adapter/http"
	"taskmanager/internal/adapter/http/handlers"
	"taskmanager/internal/adapter/idempotency"
	appservice "taskmanager/internal/app/service"
	"taskmanager/internal/config"
	"taskmanager/internal/core/ports"
	"taskmanager/pkg/translator"
)

// scriptedModel answers every prompt of a given format with the same reply.
type scriptedModel struct {
	mu      sync.Mutex
	replies map[ports.ResponseFormat]string
	err     error
	prompts []string
}

func (m *scriptedModel) Model() string { return "scripted" }

func (m *scriptedModel) Generate(_ context.Context, prompt string, format ports.ResponseFormat) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.replies[format], nil
}

// IntegrationSuiteBase runs the real router against a migrated database. SQLite in
// a temp dir is the default; TEST_DB_DRIVER=mysql targets a MySQL server instead.
type IntegrationSuiteBase struct {
	suite.Suite

	adminDB    *sqlx.DB
	DB         *sqlx.DB
	testDBName string

	Model  *scriptedModel
	Router *gin.Engine
}

func (s *IntegrationSuiteBase) SetupSuite() {
	gin.SetMode(gin.TestMode)
	translator.InitTranslator(translator.Config{
		TranslationFolder:  filepath.Join(projectRoot(s), "pkg", "translator", "translation"),
		SupportedLanguages: []string{translator.LanguageEn, translator.LanguageFr},
	})

	if os.Getenv("TEST_DB_DRIVER") == config.DriverMySQL {
		s.setupMySQL()
	}
}

func (s *IntegrationSuiteBase) setupMySQL() {
	host := envOrDefault("MYSQL_HOST", "127.0.0.1")
	port := envOrDefault("MYSQL_PORT", "3306")
	rootUser := envOrDefault("MYSQL_ROOT_USER", "root")
	rootPassword := envOrDefault("MYSQL_ROOT_PASSWORD", "root")
	database := envOrDefault("MYSQL_TEST_DATABASE", envOrDefault("MYSQL_DATABASE", "taskmanager")+"_test")
	params := envOrDefault("MYSQL_PARAMS", "parseTime=true&multiStatements=true")

	adminDB, err := dbadapter.Open(config.DriverMySQL, mysqlDSN(rootUser, rootPassword, host, port, "", params))
	if err != nil {
		s.T().Skipf("skipping integration suite: could not connect to mysql: %v", err)
	}
	s.adminDB = adminDB

	_, err = s.adminDB.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", database))
	s.Require().NoError(err)

	db, err := dbadapter.Open(config.DriverMySQL, mysqlDSN(rootUser, rootPassword, host, port, database, params))
	s.Require().NoError(err)
	s.DB = db
	s.testDBName = database
}

func (s *IntegrationSuiteBase) TearDownSuite() {
	if s.adminDB == nil {
		return
	}
	if s.DB != nil {
		s.Require().NoError(s.DB.Close())
	}

	// Drop test database to keep local environment clean after integration runs.
	if s.testDBName != "" && strings.HasSuffix(s.testDBName, "_test") {
		_, err := s.adminDB.Exec(fmt.Sprintf("DROP DATABASE IF EXISTS `%s`", s.testDBName))
		s.Require().NoError(err)
	}
	s.Require().NoError(s.adminDB.Close())
}

// SetupTest gives every test an empty schema, a fresh scripted model and a router
// wired the same way as cmd/api.
func (s *IntegrationSuiteBase) SetupTest() {
	s.ResetDatabase()

	s.Model = &scriptedModel{replies: map[ports.ResponseFormat]string{}}

	taskRepository := dbadapter.NewTaskRepository(s.DB)
	taskService := appservice.NewTaskService(taskRepository)
	aiService := appservice.NewAIService(s.Model, taskService, taskRepository, appservice.DefaultAITimeout)
	insightsService := appservice.NewInsightsService(taskRepository, s.Model, appservice.DefaultAITimeout)

	router := gin.New()
	httpadapter.RegisterRoutes(router, httpadapter.Handlers{
		Health: handlers.NewHealthHandler(s.DB, config.AppConfig{Name: "Task Manager API", Version: "test"}, aiService),
		Task:   handlers.NewTaskHandler(taskService),
		AI:     handlers.NewAIHandler(aiService, insightsService),
	}, idempotency.NewMemoryStore(idempotency.DefaultTTL))
	s.Router = router
}

func (s *IntegrationSuiteBase) TearDownTest() {
	if s.adminDB == nil && s.DB != nil {
		s.Require().NoError(s.DB.Close())
		s.DB = nil
	}
}

func (s *IntegrationSuiteBase) ResetDatabase() {
	if s.adminDB == nil {
		db, err := dbadapter.Open(config.DriverSQLite, filepath.Join(s.T().TempDir(), "tasks.db"))
		s.Require().NoError(err)
		s.DB = db
	} else {
		_, err := s.DB.Exec("DROP TABLE IF EXISTS tasks; DROP TABLE IF EXISTS goose_db_version;")
		s.Require().NoError(err)
	}
	s.Require().NoError(dbadapter.Migrate(s.DB))
}

func projectRoot(s *IntegrationSuiteBase) string {
	_, thisFile, _, ok := runtime.Caller(0)
	s.Require().True(ok)
	return filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", "..", "..", ".."))
}

func mysqlDSN(user, password, host, port, database, params string) string {
	if database == "" {
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/?%s", user, password, host, port, params)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, password, host, port, database, params)
}

func envOrDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
