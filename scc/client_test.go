package scc

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer serves body with status on every request and records the paths hit.
func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *[]string) {
	t.Helper()

	var (
		mu    sync.Mutex
		paths []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server, &paths
}

func TestNewClient(t *testing.T) {
	t.Run("default URL", func(t *testing.T) {
		client := NewClient("user", "pass")
		assert.Equal(t, DefaultURL, client.Config().BaseURL())
		assert.Equal(t, "https://scc.suse.com/connect/organizations/products/unscoped", client.resolve(productsPath))
	})

	t.Run("explicit URL", func(t *testing.T) {
		client := NewClientWithURL("https://mirror.example.com", "user", "pass")
		assert.Equal(t, "https://mirror.example.com", client.Config().BaseURL())
	})

	t.Run("options", func(t *testing.T) {
		client := NewClient("user", "pass",
			WithTimeout(5*time.Second),
			WithProxy("http://proxy.example.com:3128"),
			WithUserAgent("sccctl/test"),
			WithLogger(zerolog.Nop()),
		)
		cfg := client.Config()
		assert.Equal(t, 5*time.Second, cfg.Timeout())
		assert.Equal(t, "http://proxy.example.com:3128", cfg.Proxy())
		assert.Equal(t, "sccctl/test", cfg.UserAgent())
	})

	t.Run("negative timeout ignored", func(t *testing.T) {
		client := NewClient("user", "pass", WithTimeout(-time.Second))
		assert.Zero(t, client.Config().Timeout())
	})
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		path    string
		want    string
	}{
		{"plain", "https://scc.suse.com", "/connect/x", "https://scc.suse.com/connect/x"},
		{"trailing slash", "https://scc.suse.com/", "/connect/x", "https://scc.suse.com/connect/x"},
		{"many trailing slashes", "https://scc.suse.com//", "/connect/x", "https://scc.suse.com/connect/x"},
		{"base with prefix", "https://proxy.local/scc", "/connect/x", "https://proxy.local/scc/connect/x"},
		{"path without slash", "https://scc.suse.com", "connect/x", "https://scc.suse.com/connect/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClientWithURL(tt.baseURL, "u", "p")
			assert.Equal(t, tt.want, client.resolve(tt.path))
		})
	}
}

func TestAuthorizationHeader(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{"simple", "UC123456", "s3cr3t"},
		{"colon in password", "user", "pa:ss:word"},
		{"empty password", "user", ""},
		{"unicode", "jürgen", "pässwörd€"},
		{"spaces", "my user", "my pass"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get("Authorization")
				_, _ = w.Write([]byte("[]"))
			}))
			defer server.Close()

			client := NewClientWithURL(server.URL, tt.username, tt.password)
			_, err := client.ListSubscriptions(context.Background())
			require.NoError(t, err)

			want := "Basic " + base64.StdEncoding.EncodeToString([]byte(tt.username+":"+tt.password))
			assert.Equal(t, want, got)
			assert.Equal(t, want, "Basic "+client.Config().Credentials())

			user, pass, ok := (&http.Request{Header: http.Header{"Authorization": {got}}}).BasicAuth()
			require.True(t, ok)
			assert.Equal(t, tt.username, user)
			assert.Equal(t, tt.password, pass)
		})
	}
}

func TestListProducts(t *testing.T) {
	server, paths := newTestServer(t, http.StatusOK, `[{"id":1,"name":"X"}]`)

	client := NewClientWithURL(server.URL, "user", "pass")
	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, Product{ID: 1, Name: "X"}, products[0])
	assert.Equal(t, []string{productsPath}, *paths)
}

func TestListProductsOrderAndNesting(t *testing.T) {
	body := `[
		{"id":3,"name":"SLES","identifier":"SLES","version":"15.5","arch":"x86_64","free":false,
		 "extensions":[{"id":30,"name":"Basesystem"}],
		 "repositories":[{"id":300,"name":"SLE-Product-SLES15-SP5-Pool","autorefresh":false}],
		 "some_future_field":{"nested":true}},
		{"id":1,"name":"SLED"},
		{"id":2,"name":"SLE-HA"}
	]`
	server, _ := newTestServer(t, http.StatusOK, body)

	client := NewClientWithURL(server.URL, "user", "pass")
	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)

	assert.Equal(t, []int64{3, 1, 2}, []int64{products[0].ID, products[1].ID, products[2].ID})
	assert.Equal(t, "15.5", products[0].Version)
	require.Len(t, products[0].Extensions, 1)
	assert.Equal(t, "Basesystem", products[0].Extensions[0].Name)
	require.Len(t, products[0].Repositories, 1)
	assert.Equal(t, int64(300), products[0].Repositories[0].ID)
}

func TestListProductsUnauthorized(t *testing.T) {
	server, _ := newTestServer(t, http.StatusUnauthorized, `{"error":"Invalid credentials"}`)

	client := NewClientWithURL(server.URL, "user", "wrong")
	products, err := client.ListProducts(context.Background())
	require.Error(t, err)
	assert.Nil(t, products)

	assert.ErrorIs(t, err, ErrStatus)
	assert.NotErrorIs(t, err, ErrDecode)

	var sccErr *Error
	require.ErrorAs(t, err, &sccErr)
	assert.Equal(t, KindStatus, sccErr.Kind)
	assert.Equal(t, http.StatusUnauthorized, sccErr.StatusCode)
	assert.Equal(t, `{"error":"Invalid credentials"}`, sccErr.Body)
	assert.True(t, sccErr.IsUnauthorized())
	assert.False(t, sccErr.Temporary())
	assert.Contains(t, err.Error(), "status 401")
}

func TestListRepositoriesNotJSON(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, `not-json`)

	client := NewClientWithURL(server.URL, "user", "pass")
	repos, err := client.ListRepositories(context.Background())
	require.Error(t, err)
	assert.Nil(t, repos)
	assert.ErrorIs(t, err, ErrDecode)

	var sccErr *Error
	require.ErrorAs(t, err, &sccErr)
	assert.Equal(t, KindDecode, sccErr.Kind)
	assert.Equal(t, http.StatusOK, sccErr.StatusCode)
	assert.Equal(t, "not-json", sccErr.Body)
}

func TestListRepositoriesInvalidJSONDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"garbage", `not-json`},
		{"truncated array", `[{"id":1`},
		{"empty body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTestServer(t, http.StatusOK, tt.body)

			client := NewClientWithURL(server.URL, "user", "pass")
			_, err := client.ListRepositories(context.Background())
			assert.ErrorIs(t, err, ErrDecode)
			assert.ErrorIs(t, err, errInvalidJSON)

			var syntaxErr *json.SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Contains(t, err.Error(), syntaxErr.Error())
		})
	}
}

func TestListProductsElementErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		wantMsg string
	}{
		{"second element null", `[{"id":1,"name":"X"},null]`, errNotObject, "element 1"},
		{"first element missing id", `[{"name":"X"}]`, errMissingID, "element 0"},
		{"nested array element", `[{"id":1},[]]`, errNotObject, "got array"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTestServer(t, http.StatusOK, tt.body)

			client := NewClientWithURL(server.URL, "user", "pass")
			products, err := client.ListProducts(context.Background())
			assert.Nil(t, products)
			assert.ErrorIs(t, err, ErrDecode)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestListRepositoriesShapeMismatch(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"object instead of array", `{"id":1,"name":"repo"}`},
		{"null", `null`},
		{"empty body", ``},
		{"mistyped field", `[{"id":"one","name":"repo"}]`},
		{"array of strings", `["a","b"]`},
		{"null element", `[null]`},
		{"empty object", `[{}]`},
		{"missing id", `[{"name":"repo"}]`},
		{"null id", `[{"id":null,"name":"repo"}]`},
		{"trailing null element", `[{"id":1,"name":"X"},null]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTestServer(t, http.StatusOK, tt.body)

			client := NewClientWithURL(server.URL, "user", "pass")
			repos, err := client.ListRepositories(context.Background())
			assert.ErrorIs(t, err, ErrDecode)
			assert.Nil(t, repos)
		})
	}
}

func TestListSubscriptionsEmpty(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, `[]`)

	client := NewClientWithURL(server.URL, "user", "pass")
	subs, err := client.ListSubscriptions(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, subs)
	assert.Empty(t, subs)
}

func TestListSubscriptionsDecode(t *testing.T) {
	body := `[{"id":42,"regcode":"REG-1","name":"SUSE Linux Enterprise Server","type":"full",
		"status":"ACTIVE","starts_at":"2024-01-01T00:00:00.000Z","expires_at":null,
		"system_limit":10,"systems_count":3,"virtual_count":null,
		"product_classes":["7261"],"product_ids":[1,2],"skus":["874-007023"]}]`
	server, _ := newTestServer(t, http.StatusOK, body)

	client := NewClientWithURL(server.URL, "user", "pass")
	subs, err := client.ListSubscriptions(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 1)

	sub := subs[0]
	assert.Equal(t, int64(42), sub.ID)
	assert.True(t, sub.IsActive())
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), sub.StartsAt.UTC())
	assert.True(t, sub.ExpiresAt.IsZero())
	assert.Nil(t, sub.VirtualCount)
	assert.Equal(t, []int64{1, 2}, sub.ProductIDs)
	assert.Equal(t, []string{"874-007023"}, sub.SKUs)
}

func TestRepeatedCallsAreIndependent(t *testing.T) {
	server, paths := newTestServer(t, http.StatusOK, `[{"id":1,"name":"X","extensions":[{"id":2,"name":"Y"}]}]`)

	client := NewClientWithURL(server.URL, "user", "pass")
	first, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	second, err := client.ListProducts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, *paths, 2)

	first[0].Name = "changed"
	first[0].Extensions[0].Name = "changed"
	assert.Equal(t, "X", second[0].Name)
	assert.Equal(t, "Y", second[0].Extensions[0].Name)
}

func TestOperationPaths(t *testing.T) {
	tests := []struct {
		name string
		call func(*Client) error
		want string
	}{
		{
			name: "products",
			call: func(c *Client) error { _, err := c.ListProducts(context.Background()); return err },
			want: "/connect/organizations/products/unscoped",
		},
		{
			name: "repositories",
			call: func(c *Client) error { _, err := c.ListRepositories(context.Background()); return err },
			want: "/connect/organizations/repositories",
		},
		{
			name: "subscriptions",
			call: func(c *Client) error { _, err := c.ListSubscriptions(context.Background()); return err },
			want: "/connect/organizations/subscriptions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, paths := newTestServer(t, http.StatusOK, `[]`)

			client := NewClientWithURL(server.URL+"/", "user", "pass")
			require.NoError(t, tt.call(client))
			assert.Equal(t, []string{tt.want}, *paths)
		})
	}
}

func TestRequestHeaders(t *testing.T) {
	var header http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Clone()
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte("[]"))
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL, "user", "pass", WithUserAgent("sccctl/1.0"))
	_, err := client.ListRepositories(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "application/json", header.Get("Accept"))
	assert.Equal(t, "sccctl/1.0", header.Get("User-Agent"))
}

func TestTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClientWithURL(url, "user", "pass")
	products, err := client.ListProducts(context.Background())
	require.Error(t, err)
	assert.Nil(t, products)
	assert.ErrorIs(t, err, ErrTransport)

	var sccErr *Error
	require.ErrorAs(t, err, &sccErr)
	assert.True(t, sccErr.Temporary())
	assert.Zero(t, sccErr.StatusCode)
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		_, _ = w.Write([]byte("[]"))
	}))
	defer server.Close()
	defer close(release)

	client := NewClientWithURL(server.URL, "user", "pass")
	client.Config().SetTimeout(50 * time.Millisecond)

	_, err := client.ListSubscriptions(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestConfigChangesApplyToLaterCalls(t *testing.T) {
	oldServer, oldPaths := newTestServer(t, http.StatusOK, `[]`)
	newServer, newPaths := newTestServer(t, http.StatusOK, `[{"id":7,"name":"moved"}]`)

	client := NewClientWithURL(oldServer.URL, "user", "pass")
	_, err := client.ListProducts(context.Background())
	require.NoError(t, err)

	client.Config().SetURL(newServer.URL)
	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "moved", products[0].Name)

	assert.Len(t, *oldPaths, 1)
	assert.Len(t, *newPaths, 1)
}

func TestProxy(t *testing.T) {
	var proxiedHost string
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proxiedHost = r.URL.Host
		_, _ = w.Write([]byte(`[{"id":9,"name":"via proxy"}]`))
	}))
	defer proxy.Close()

	client := NewClientWithURL("http://scc.example.invalid", "user", "pass")
	client.Config().SetProxy(proxy.URL)

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "via proxy", products[0].Name)
	assert.Equal(t, "scc.example.invalid", proxiedHost)
}

func TestWithHTTPClient(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":"tls"}]`))
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL, "user", "pass", WithHTTPClient(server.Client()))
	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "tls", products[0].Name)
}

func TestContextCanceled(t *testing.T) {
	server, paths := newTestServer(t, http.StatusOK, `[]`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClientWithURL(server.URL, "user", "pass")
	_, err := client.ListProducts(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, *paths)
}
