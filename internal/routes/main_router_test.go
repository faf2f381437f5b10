package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"inventory-system/internal/export"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/config"
	"inventory-system/pkg/eventbus"
	"inventory-system/pkg/filestorage"
	"inventory-system/pkg/middleware"
	"inventory-system/pkg/validation"
	"inventory-system/pkg/websocket"
	"inventory-system/seeders"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Body    json.RawMessage `json:"body"`
}

// InventoryTestSuite прогоняет HTTP API поверх хранилища в памяти.
type InventoryTestSuite struct {
	suite.Suite
	Echo   *echo.Echo
	Store  repositories.Store
	Bus    *eventbus.Bus
	cancel context.CancelFunc
}

func (s *InventoryTestSuite) SetupTest() {
	logger := zap.NewNop()
	files, err := filestorage.NewLocalFileStorage(s.T().TempDir(), "/uploads")
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	cfg := &config.Config{
		Cache: config.CacheConfig{DashboardTTL: time.Minute},
		App:   config.AppConfig{DefaultActor: "Sistema", RecentActivityLimit: 10},
	}

	e := echo.New()
	e.Validator = validation.New()
	s.Store = repositories.NewMemoryStore()
	s.Bus = eventbus.New(logger)

	InitRouter(e, Dependencies{
		Store:  s.Store,
		Cache:  repositories.NewMemoryCacheRepository(),
		Files:  files,
		Bus:    s.Bus,
		Hub:    hub,
		Config: cfg,
	}, logger)
	s.Echo = e
}

func (s *InventoryTestSuite) TearDownTest() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = s.Bus.Wait(ctx)
	s.cancel()
}

func (s *InventoryTestSuite) do(method, target string, body interface{}, user string) (*httptest.ResponseRecorder, envelope) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if user != "" {
		req.Header.Set(middleware.HeaderUser, user)
	}
	return s.serve(req)
}

func (s *InventoryTestSuite) serve(req *http.Request) (*httptest.ResponseRecorder, envelope) {
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (s *InventoryTestSuite) upload(target, fileName string, content []byte) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	s.Require().NoError(err)
	_, err = part.Write(content)
	s.Require().NoError(err)
	s.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	req.Header.Set(middleware.HeaderUser, "Ana")
	return s.serve(req)
}

func newEquipmentPayload() map[string]interface{} {
	return map[string]interface{}{
		"assetNumber":     "NOTE-010",
		"description":     "Notebook Lenovo",
		"brand":           "Lenovo",
		"model":           "ThinkPad T14",
		"status":          "active",
		"location":        "Escritório Principal",
		"responsible":     "Carlos Lima",
		"acquisitionDate": "2024-02-10",
		"value":           6100,
	}
}

func (s *InventoryTestSuite) createEquipment() string {
	rec, env := s.do(http.MethodPost, "/api/equipment", newEquipmentPayload(), "Maria")
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(env.Body, &created))
	return created.ID
}

func (s *InventoryTestSuite) TestCreateAndFind() {
	id := s.createEquipment()

	rec, env := s.do(http.MethodGet, "/api/equipment/"+id, nil, "")
	s.Equal(http.StatusOK, rec.Code)
	s.True(env.Status)
	s.Contains(string(env.Body), `"statusLabel":"Ativo"`)

	rec, env = s.do(http.MethodGet, "/api/equipment/"+id+"/history", nil, "")
	s.Equal(http.StatusOK, rec.Code)
	var history []map[string]interface{}
	s.Require().NoError(json.Unmarshal(env.Body, &history))
	s.Require().Len(history, 1)
	s.Equal("created", history[0]["changeType"])
	s.Equal("Maria", history[0]["user"])
}

func (s *InventoryTestSuite) TestStatusAliasesInJSON() {
	payload := newEquipmentPayload()
	payload["status"] = "ativo"
	rec, env := s.do(http.MethodPost, "/api/equipment", payload, "Maria")
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	s.Require().NoError(json.Unmarshal(env.Body, &created))
	s.Equal("active", created.Status)

	rec, env = s.do(http.MethodPatch, "/api/equipment/"+created.ID+"/status", map[string]interface{}{"status": "manutenção"}, "Maria")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Contains(string(env.Body), `"status":"maintenance"`)

	rec, env = s.do(http.MethodPut, "/api/equipment/"+created.ID, map[string]interface{}{"status": "desativado"}, "Maria")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Contains(string(env.Body), `"status":"decommissioned"`)
}

func (s *InventoryTestSuite) TestCreateValidationAndNotFound() {
	payload := newEquipmentPayload()
	payload["status"] = "perdido"
	rec, env := s.do(http.MethodPost, "/api/equipment", payload, "")
	s.Equal(http.StatusBadRequest, rec.Code)
	s.False(env.Status)

	payload = newEquipmentPayload()
	payload["acquisitionDate"] = "2024-02-30"
	rec, _ = s.do(http.MethodPost, "/api/equipment", payload, "")
	s.Equal(http.StatusBadRequest, rec.Code)

	payload = newEquipmentPayload()
	payload["location"] = "   "
	rec, _ = s.do(http.MethodPost, "/api/equipment", payload, "")
	s.Equal(http.StatusBadRequest, rec.Code)

	id := s.createEquipment()
	rec, _ = s.do(http.MethodPut, "/api/equipment/"+id, map[string]interface{}{"brand": " "}, "")
	s.Equal(http.StatusBadRequest, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/equipment/ghost", nil, "")
	s.Equal(http.StatusNotFound, rec.Code)
	s.False(env.Status)

	rec, _ = s.do(http.MethodPut, "/api/equipment/ghost", map[string]interface{}{"brand": "HP"}, "")
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *InventoryTestSuite) TestUpdateStatusAndDelete() {
	id := s.createEquipment()

	rec, _ := s.do(http.MethodPut, "/api/equipment/"+id, map[string]interface{}{"responsible": "Paula Reis", "value": 5800}, "Ana")
	s.Equal(http.StatusOK, rec.Code, rec.Body.String())

	rec, env := s.do(http.MethodPatch, "/api/equipment/"+id+"/status", map[string]interface{}{"status": "maintenance"}, "Ana")
	s.Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Contains(string(env.Body), `"status":"maintenance"`)

	_, env = s.do(http.MethodGet, "/api/history/recent?limit=2", nil, "")
	var recent []map[string]interface{}
	s.Require().NoError(json.Unmarshal(env.Body, &recent))
	s.Require().Len(recent, 2)
	s.Equal("status-changed", recent[0]["changeType"])
	s.Equal("Ana", recent[0]["user"])

	rec, _ = s.do(http.MethodGet, "/api/history/recent?limit=abc", nil, "")
	s.Equal(http.StatusBadRequest, rec.Code)

	rec, _ = s.do(http.MethodDelete, "/api/equipment/"+id, nil, "Ana")
	s.Equal(http.StatusOK, rec.Code)
	rec, _ = s.do(http.MethodGet, "/api/equipment/"+id, nil, "")
	s.Equal(http.StatusNotFound, rec.Code)

	_, env = s.do(http.MethodGet, "/api/equipment/"+id+"/history", nil, "")
	s.Contains(string(env.Body), `"changeType":"deleted"`)
}

func (s *InventoryTestSuite) TestListFilterAndPagination() {
	rec, env := s.do(http.MethodPost, "/api/equipment/sample-data", nil, "")
	s.Equal(http.StatusCreated, rec.Code)
	s.Contains(string(env.Body), `"inserted":5`)

	rec, env = s.do(http.MethodPost, "/api/equipment/sample-data", nil, "")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(string(env.Body), `"skipped":true`)

	rec, env = s.do(http.MethodGet, "/api/equipment?filter[status]=ativo&sort[value]=desc&withPagination=true&limit=2&page=1", nil, "")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var page struct {
		List []struct {
			AssetNumber string `json:"assetNumber"`
		} `json:"list"`
		Pagination struct {
			TotalCount uint64 `json:"total_count"`
			TotalPages int    `json:"total_pages"`
		} `json:"pagination"`
	}
	s.Require().NoError(json.Unmarshal(env.Body, &page))
	s.Require().Len(page.List, 2)
	s.Equal("COMP-001", page.List[0].AssetNumber)
	s.Equal("COMP-002", page.List[1].AssetNumber)
	s.EqualValues(4, page.Pagination.TotalCount)
	s.Equal(2, page.Pagination.TotalPages)

	rec, _ = s.do(http.MethodGet, "/api/equipment?filter[status]=perdido", nil, "")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *InventoryTestSuite) TestReportsAndDashboard() {
	s.do(http.MethodPost, "/api/equipment/sample-data", nil, "")

	rec, env := s.do(http.MethodGet, "/api/reports/summary?filter%5Blocation%5D=Escrit%C3%B3rio%20Principal", nil, "")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Contains(string(env.Body), `"count":2`)
	s.Contains(string(env.Body), `"totalValue":12700`)

	rec, _ = s.do(http.MethodGet, "/api/reports/export?format=csv&search=epson", nil, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Header().Get(echo.HeaderContentDisposition), "relatorio_equipamentos_")
	s.Equal("text/csv; charset=utf-8", rec.Header().Get(echo.HeaderContentType))
	lines := strings.Split(rec.Body.String(), "\n")
	s.Len(lines, 2)
	s.Contains(lines[1], `"PROJ-001"`)

	rec, _ = s.do(http.MethodGet, "/api/reports/export?format=pdf", nil, "")
	s.Equal(http.StatusBadRequest, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/dashboard", nil, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(string(env.Body), `"totalEquipment":5`)
	s.Contains(string(env.Body), `"lastActivity":[`)
}

func (s *InventoryTestSuite) TestAttachments() {
	id := s.createEquipment()

	rec, env := s.upload("/api/equipment/"+id+"/attachments", "nota.pdf", []byte("%PDF-1.4\n%test\n"))
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var att struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	s.Require().NoError(json.Unmarshal(env.Body, &att))
	s.Equal("nota.pdf", att.Name)

	rec, _ = s.upload("/api/equipment/"+id+"/attachments", "run.exe", []byte("MZ\x90\x00\x03\x00\x00\x00"))
	s.Equal(http.StatusBadRequest, rec.Code)

	_, env = s.do(http.MethodGet, "/api/equipment/"+id+"/attachments", nil, "")
	s.Contains(string(env.Body), att.ID)

	rec, _ = s.do(http.MethodDelete, "/api/attachments/"+att.ID, nil, "Ana")
	s.Equal(http.StatusOK, rec.Code)
	rec, _ = s.do(http.MethodDelete, "/api/attachments/"+att.ID, nil, "Ana")
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *InventoryTestSuite) TestImport() {
	var sheet bytes.Buffer
	s.Require().NoError(export.WriteXLSX(&sheet, seeders.SampleEquipment()[:2]))

	rec, env := s.upload("/api/equipment/import", "inventario.xlsx", sheet.Bytes())
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	s.Contains(string(env.Body), `"inserted":2`)

	count, err := s.Store.Equipment().Count(context.Background())
	s.Require().NoError(err)
	s.Equal(2, count)
}

func TestInventoryTestSuite(t *testing.T) {
	suite.Run(t, new(InventoryTestSuite))
}
