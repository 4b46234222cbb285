package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"galeri/internal/handler"
	"galeri/internal/model"
	"galeri/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// --- Mock VehicleService ---
type MockVehicleService struct {
	mock.Mock
}

func (m *MockVehicleService) GetVehicles(ctx context.Context) ([]model.Vehicle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Vehicle), args.Error(1)
}

func (m *MockVehicleService) GetVehicleByID(ctx context.Context, id string) (*model.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Vehicle), args.Error(1)
}

func (m *MockVehicleService) CreateVehicle(ctx context.Context, userID string, req service.CreateVehicleRequest) (*model.Vehicle, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Vehicle), args.Error(1)
}

func (m *MockVehicleService) UpdateVehicle(ctx context.Context, userID string, id string, req service.UpdateVehicleRequest) (*model.Vehicle, error) {
	args := m.Called(ctx, userID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Vehicle), args.Error(1)
}

func (m *MockVehicleService) DeleteVehicle(ctx context.Context, userID string, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockVehicleService) SellVehicle(ctx context.Context, userID string, id string, req service.SellVehicleRequest) (*model.Vehicle, error) {
	args := m.Called(ctx, userID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Vehicle), args.Error(1)
}

var _ service.VehicleService = (*MockVehicleService)(nil)

// --- Suite ---

type VehicleHandlerTestSuite struct {
	suite.Suite
	mockService *MockVehicleService
	router      *gin.Engine
	authHeader  string
}

func (s *VehicleHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.T().Setenv("JWT_SECRET", "test-secret")

	s.mockService = new(MockVehicleService)
	s.router = gin.New()
	handler.NewVehicleHandler(s.mockService).RegisterRoutes(s.router.Group(""))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": uuid.NewString(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	s.Require().NoError(err)
	s.authHeader = "Bearer " + signed
}

func (s *VehicleHandlerTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if s.authHeader != "" {
		req.Header.Set("Authorization", s.authHeader)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *VehicleHandlerTestSuite) TestListVehicles() {
	vehicles := []model.Vehicle{
		{ID: uuid.New(), Make: "Toyota", Model: "Corolla", Year: 2019, Status: model.VehicleStatusInStock, PurchasePrice: decimal.NewFromInt(500000)},
	}
	s.mockService.On("GetVehicles", mock.Anything).Return(vehicles, nil).Once()

	w := s.do(http.MethodGet, "/api/vehicles", "")

	s.Equal(http.StatusOK, w.Code)
	var resp struct {
		Status string          `json:"status"`
		Data   []model.Vehicle `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("success", resp.Status)
	s.Len(resp.Data, 1)
}

func (s *VehicleHandlerTestSuite) TestListVehicles_Unauthorized() {
	s.authHeader = ""
	w := s.do(http.MethodGet, "/api/vehicles", "")
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *VehicleHandlerTestSuite) TestGetVehicle_NotFound() {
	id := uuid.NewString()
	s.mockService.On("GetVehicleByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound).Once()

	w := s.do(http.MethodGet, "/api/vehicles/"+id, "")

	s.Equal(http.StatusNotFound, w.Code)
	s.Contains(w.Body.String(), "Vehicle not found")
}

func (s *VehicleHandlerTestSuite) TestCreateVehicle() {
	created := &model.Vehicle{ID: uuid.New(), Make: "Toyota", Model: "Corolla", Year: 2019, Status: model.VehicleStatusInStock, PurchasePrice: decimal.NewFromInt(500000)}
	s.mockService.On("CreateVehicle", mock.Anything, mock.Anything, mock.MatchedBy(func(req service.CreateVehicleRequest) bool {
		return req.Make == "Toyota" && req.PurchasePrice == "500000"
	})).Return(created, nil).Once()

	w := s.do(http.MethodPost, "/api/vehicles", `{"make":"Toyota","model":"Corolla","year":2019,"purchase_price":"500000","purchase_date":"2025-05-01"}`)

	s.Equal(http.StatusCreated, w.Code)
	s.mockService.AssertExpectations(s.T())
}

func (s *VehicleHandlerTestSuite) TestCreateVehicle_MissingFields() {
	w := s.do(http.MethodPost, "/api/vehicles", `{"make":"Toyota"}`)
	s.Equal(http.StatusBadRequest, w.Code)
	s.mockService.AssertNotCalled(s.T(), "CreateVehicle", mock.Anything, mock.Anything, mock.Anything)
}

func (s *VehicleHandlerTestSuite) TestSellVehicle_NotFound() {
	id := uuid.NewString()
	s.mockService.On("SellVehicle", mock.Anything, mock.Anything, id, mock.Anything).Return(nil, gorm.ErrRecordNotFound).Once()

	w := s.do(http.MethodPost, "/api/vehicles/"+id+"/sell", `{"selling_price":"600000"}`)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *VehicleHandlerTestSuite) TestDeleteVehicle() {
	id := uuid.NewString()
	s.mockService.On("DeleteVehicle", mock.Anything, mock.Anything, id).Return(nil).Once()

	w := s.do(http.MethodDelete, "/api/vehicles/"+id, "")

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "Vehicle deleted successfully")
}

func TestVehicleHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(VehicleHandlerTestSuite))
}
