package events

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lingorelay/lingorelay/internal/application/relay"
	"github.com/lingorelay/lingorelay/internal/infrastructure/persistence/models"
	"github.com/lingorelay/lingorelay/internal/infrastructure/repository"
	"github.com/lingorelay/lingorelay/internal/shared/db"
	"github.com/lingorelay/lingorelay/internal/shared/logger"
)

const testSecret = "event-secret"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(
		&models.TenantModel{},
		&models.TenantChannelModel{},
		&models.MembershipModel{},
		&models.GlobalUserModel{},
		&models.BanModel{},
		&models.WarningModel{},
		&models.ModerationAuditModel{},
		&models.UsageLogModel{},
	))

	// Upstream collaborators stay nil: an event for an unknown space drops
	// before the pipeline reaches them.
	service := relay.NewService(
		repository.NewTenantRepository(database),
		repository.NewMembershipRepository(database),
		repository.NewGlobalUserRepository(database),
		repository.NewModerationRepository(database),
		repository.NewUsageLogRepository(database),
		db.NewTransactionManager(database),
		nil, nil, nil, nil,
		0.8, logger.NewLogger(),
	)

	handler := NewHandler(service, testSecret, logger.NewLogger())
	engine := gin.New()
	engine.POST("/platform/events", handler.HandleMessageEvent)
	return engine
}

func postEvent(engine *gin.Engine, secret string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/platform/events", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("X-Event-Secret", secret)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestHandleMessageEvent(t *testing.T) {
	engine := newTestRouter(t)

	event := relay.MessageEvent{
		SpaceID:   "space-unknown",
		ChannelID: "chan-1",
		MessageID: "msg-1",
		UserID:    "user-1",
		Text:      "hello",
	}

	w := postEvent(engine, testSecret, event)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleMessageEventRejectsBadSecret(t *testing.T) {
	engine := newTestRouter(t)

	w := postEvent(engine, "wrong", relay.MessageEvent{SpaceID: "space-1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postEvent(engine, "", relay.MessageEvent{SpaceID: "space-1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleMessageEventRejectsMalformedBody(t *testing.T) {
	engine := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/platform/events", bytes.NewReader([]byte("{not json")))
	req.Header.Set("X-Event-Secret", testSecret)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
