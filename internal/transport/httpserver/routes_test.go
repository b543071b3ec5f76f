package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"finance-dashboard-go/internal/auth"
	"finance-dashboard-go/internal/config"
	analyticsdomain "finance-dashboard-go/internal/domain/analytics"
	txdomain "finance-dashboard-go/internal/domain/transactions"
	userdomain "finance-dashboard-go/internal/domain/user"
	"finance-dashboard-go/internal/transport/httpserver/handler"
	commonhandler "finance-dashboard-go/internal/transport/httpserver/handler/common"
	transactionshandler "finance-dashboard-go/internal/transport/httpserver/handler/transactions"
	"finance-dashboard-go/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryTransactions struct {
	mu     sync.Mutex
	items  []txdomain.Transaction
	nextID int64
}

func (m *memoryTransactions) match(userID string, f txdomain.Filter) []txdomain.Transaction {
	out := make([]txdomain.Transaction, 0)
	for _, item := range m.items {
		if item.UserID != userID ||
			(f.Category != nil && item.Category != *f.Category) ||
			(f.Status != nil && item.Status != *f.Status) ||
			(f.From != nil && item.Date.Before(*f.From)) ||
			(f.To != nil && item.Date.After(*f.To)) {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (m *memoryTransactions) List(ctx context.Context, userID string, f txdomain.ListFilter) ([]txdomain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := m.match(userID, f.Filter)
	start := (f.Page - 1) * f.Limit
	if start >= len(items) {
		return nil, nil
	}
	end := start + f.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], nil
}

func (m *memoryTransactions) Count(ctx context.Context, userID string, f txdomain.Filter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.match(userID, f))), nil
}

func (m *memoryTransactions) Find(ctx context.Context, userID string, f txdomain.Filter) ([]txdomain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.match(userID, f), nil
}

func (m *memoryTransactions) GetByID(ctx context.Context, userID string, id int64) (*txdomain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range m.items {
		if item.ID == id && item.UserID == userID {
			copied := item
			return &copied, nil
		}
	}
	return nil, txdomain.ErrTransactionNotFound
}

func (m *memoryTransactions) Create(ctx context.Context, t *txdomain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	t.ID = m.nextID
	m.items = append(m.items, *t)
	return nil
}

func (m *memoryTransactions) Update(ctx context.Context, t *txdomain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == t.ID && m.items[i].UserID == t.UserID {
			m.items[i] = *t
			return nil
		}
	}
	return txdomain.ErrTransactionNotFound
}

func (m *memoryTransactions) Delete(ctx context.Context, userID string, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id && m.items[i].UserID == userID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]userdomain.User
}

func (m *memoryUsers) Create(ctx context.Context, u *userdomain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.UserID] = *u
	return nil
}

func (m *memoryUsers) GetByUserID(ctx context.Context, userID string) (*userdomain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, userdomain.ErrUserNotFound
	}
	return &u, nil
}

func (m *memoryUsers) GetByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, userdomain.ErrUserNotFound
}

func (m *memoryUsers) Update(ctx context.Context, u *userdomain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.UserID] = *u
	return nil
}

func (m *memoryUsers) DeleteByUserIDOrEmail(ctx context.Context, userID, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, u := range m.users {
		if u.UserID == userID || u.Email == email {
			delete(m.users, key)
		}
	}
	return nil
}

type testServer struct {
	handler   http.Handler
	exportDir string
}

func newTestServer(t *testing.T, authCfg config.AuthConfig) *testServer {
	t.Helper()
	return newLoggedTestServer(t, authCfg, logger.Discard())
}

func newLoggedTestServer(t *testing.T, authCfg config.AuthConfig, log logger.Logger) *testServer {
	t.Helper()
	exportDir := t.TempDir()

	users := userdomain.NewService(&memoryUsers{users: make(map[string]userdomain.User)})
	tokens := auth.NewTokenManager("test-secret", "finance-dashboard", time.Hour)
	transactions := txdomain.NewService(&memoryTransactions{}, txdomain.WithLogger(log))
	analytics := analyticsdomain.NewService(transactions, time.UTC)

	handlers := handler.New(
		commonhandler.New(users, tokens, log),
		transactionshandler.New(transactions, analytics, exportDir, log),
	)
	cfg := config.Config{
		CORSAllowedOrigins: []string{"http://localhost:5173"},
		Auth:               authCfg,
	}

	return &testServer{
		handler:   NewRouter(cfg, handlers, tokens, users, log),
		exportDir: exportDir,
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func skipAuth() config.AuthConfig {
	return config.AuthConfig{SkipAuth: true, MockUserID: "user_001", MockUserEmail: "user1@example.com"}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, skipAuth())
	rec := s.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRegisterLoginProfile(t *testing.T) {
	s := newTestServer(t, config.AuthConfig{})

	rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "alice@example.com", "password": "secret1", "name": "Alice",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "alice@example.com", "password": "secret1", "name": "Alice",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alice@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alice@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	var session struct {
		Token string `json:"token"`
		User  struct {
			UserID string `json:"user_id"`
			Email  string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	require.NotEmpty(t, session.Token)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = s.do(t, http.MethodGet, "/api/auth/profile", session.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), session.User.UserID)

	rec = s.do(t, http.MethodPut, "/api/auth/profile", session.Token, map[string]string{"name": "Alice B"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Alice B"`)

	rec = s.do(t, http.MethodGet, "/api/transactions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTransactionCRUD(t *testing.T) {
	s := newTestServer(t, skipAuth())

	rec := s.do(t, http.MethodPost, "/api/transactions", "", map[string]interface{}{
		"amount": 100, "category": "Revenue", "status": "Paid", "date": "2024-01-05",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created txdomain.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "user_001", created.UserID)
	assert.Equal(t, txdomain.DefaultUserProfile, created.UserProfile)

	rec = s.do(t, http.MethodPost, "/api/transactions", "", map[string]interface{}{
		"amount": 10, "category": "Income", "status": "Paid",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/transactions", "", map[string]interface{}{"category": "Revenue", "status": "Paid"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/transactions/1", "", map[string]interface{}{"status": "Pending", "amount": 120})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"status":"Pending"`)
	assert.Contains(t, rec.Body.String(), `"amount":120`)

	rec = s.do(t, http.MethodGet, "/api/transactions/1", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/transactions/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/transactions?page=1&limit=5&sortBy=amount&sortOrder=asc", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page txdomain.Page
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Transactions, 1)
	assert.Equal(t, txdomain.Pagination{CurrentPage: 1, TotalPages: 1, TotalItems: 1, ItemsPerPage: 5}, page.Pagination)

	rec = s.do(t, http.MethodGet, "/api/transactions?limit=101", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/transactions/1", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/transactions/1", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func seedTransactions(t *testing.T, s *testServer) {
	t.Helper()
	for _, body := range []map[string]interface{}{
		{"amount": 100, "category": "Revenue", "status": "Paid", "date": "2024-01-05"},
		{"amount": -40, "category": "Expense", "status": "Pending", "date": "2024-03-10"},
		{"amount": 10, "category": "Expense", "status": "Paid", "date": "2024-03-11", "description": "coffee, beans"},
	} {
		rec := s.do(t, http.MethodPost, "/api/transactions", "", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
}

func TestAnalyticsMonthly(t *testing.T) {
	s := newTestServer(t, skipAuth())
	seedTransactions(t, s)

	rec := s.do(t, http.MethodGet, "/api/transactions/analytics?timeRange=monthly", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result analyticsdomain.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, analyticsdomain.Summary{TotalRevenue: 100, TotalExpenses: 50, NetIncome: 50, TransactionCount: 3}, result.Summary)
	assert.Equal(t, analyticsdomain.BucketMonth, result.BucketKey)
	require.Len(t, result.Series, 3)
	assert.Equal(t, analyticsdomain.SeriesPoint{BucketLabel: "2024-02"}, result.Series[1])

	rec = s.do(t, http.MethodGet, "/api/transactions/analytics?timeRange=yearly", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/transactions/analytics?timeRange=selectrange&startDate=2024-03-01&category=Expense", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var filtered analyticsdomain.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &filtered))
	assert.Equal(t, analyticsdomain.BucketWeek, filtered.BucketKey)
	assert.Equal(t, 2, filtered.Summary.TransactionCount)
	assert.Equal(t, map[txdomain.Category]int{txdomain.CategoryExpense: 2}, filtered.CategoryBreakdown)
	assert.Equal(t, map[txdomain.Status]int{txdomain.StatusPending: 1, txdomain.StatusPaid: 1}, filtered.StatusBreakdown)
}

func TestAnalyticsExport(t *testing.T) {
	s := newTestServer(t, skipAuth())
	seedTransactions(t, s)

	rec := s.do(t, http.MethodGet, "/api/transactions/analytics/export?timeRange=monthly", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="analytics_report_user_001_`)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Summary\nTotal Revenue,100\nTotal Expenses,50\nNet Income,50\nTransaction Count,3\n"))
	assert.Contains(t, rec.Body.String(), "Chart Data\nmonth,Revenue,Expenses\n2024-01,100,0\n2024-02,0,0\n2024-03,0,50\n")

	entries, err := os.ReadDir(s.exportDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTransactionsExport(t *testing.T) {
	s := newTestServer(t, skipAuth())

	rec := s.do(t, http.MethodGet, "/api/transactions/export", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	seedTransactions(t, s)

	rec = s.do(t, http.MethodGet, "/api/transactions/export?status=Paid", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="transactions_user_001_`)
	want := "ID,Date,Amount,Category,Status,Description\n" +
		"3,2024-03-11 00:00:00,10,Expense,Paid,\"coffee, beans\"\n" +
		"1,2024-01-05 00:00:00,100,Revenue,Paid,\n"
	assert.Equal(t, want, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/transactions/export?startDate=nope", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	entries, err := os.ReadDir(s.exportDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAnalyticsDateOrderOnlyCheckedForRanges(t *testing.T) {
	s := newTestServer(t, skipAuth())
	seedTransactions(t, s)

	rec := s.do(t, http.MethodGet, "/api/transactions/analytics?timeRange=all&startDate=2024-05-01&endDate=2024-01-01", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result analyticsdomain.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 3, result.Summary.TransactionCount)

	rec = s.do(t, http.MethodGet, "/api/transactions/analytics/export?timeRange=monthly&startDate=2024-05-01&endDate=2024-01-01", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/transactions/analytics?timeRange=selectrange&startDate=2024-05-01&endDate=2024-01-01", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/transactions?startDate=2024-05-01&endDate=2024-01-01", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListRejectsExplicitZeroPaging(t *testing.T) {
	s := newTestServer(t, skipAuth())

	for _, query := range []string{"page=0", "limit=0", "page=-1"} {
		rec := s.do(t, http.MethodGet, "/api/transactions?"+query, "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}

	rec := s.do(t, http.MethodGet, "/api/transactions", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page txdomain.Page
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Pagination.CurrentPage)
	assert.Equal(t, 10, page.Pagination.ItemsPerPage)
}

func TestHandlerLogsCarryRequestID(t *testing.T) {
	var out bytes.Buffer
	s := newLoggedTestServer(t, config.AuthConfig{}, logger.New(&out, slog.LevelDebug, "json"))

	rec := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ghost@example.com", "password": "secret1"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var found bool
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		if entry["msg"] == "auth.login: invalid credentials" {
			found = true
			assert.NotEmpty(t, entry["request_id"])
		}
	}
	assert.True(t, found, out.String())
}
