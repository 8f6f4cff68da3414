package integrationtests

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	account "sublease-marketplace/internal/accountService"
	"sublease-marketplace/internal/auth"
	bidding "sublease-marketplace/internal/biddingService"
	"sublease-marketplace/internal/config"
	listing "sublease-marketplace/internal/listingService"
	"sublease-marketplace/internal/metrics"
	"sublease-marketplace/internal/repository"
	review "sublease-marketplace/internal/reviewService"
	"sublease-marketplace/internal/server"
	"sublease-marketplace/internal/storage"
	"sublease-marketplace/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// SetupTestRouter wires the full application on an in-memory sqlite database and a temporary upload directory
func SetupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	uploads := t.TempDir()
	images, err := storage.NewLocalStore(uploads, "/uploads")
	require.NoError(t, err)

	tokens, err := auth.NewTokenIssuer(config.JWTConfig{Secret: "integration-secret", Expiration: time.Hour, Issuer: "sublease-test"})
	require.NoError(t, err)

	limits := config.UploadConfig{MaxPropertyImageBytes: 1 << 20, MaxPropertyImages: 3, MaxProfileImageBytes: 1 << 20}
	properties := repository.NewGormPropertyRepo(db)
	m := metrics.New("sublease")

	return server.SetupRouter(server.Dependencies{
		Bidding:   bidding.NewBiddingService(repository.NewGormAuctionRepo(db), bidding.WithRecorder(m)),
		Listings:  listing.NewListingService(properties, images, limits),
		Accounts:  account.NewAccountService(repository.NewGormUserRepo(db), properties, tokens, images, limits.MaxProfileImageBytes),
		Reviews:   review.NewReviewService(repository.NewGormReviewRepo(db), properties),
		Tokens:    tokens,
		Metrics:   m,
		HTTP:      config.HTTPConfig{MaxBodySize: 8 << 20},
		UploadDir: images.Root(),
		UploadURL: "/uploads",
	})
}

// ExecuteRequestAndParse executes a JSON request and returns the decoded envelope
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url, token string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case string:
		reqBody = []byte(v)
	default:
		var err error
		reqBody, err = json.Marshal(v)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	return serve(t, router, req, token)
}

// ExecuteMultipart sends form fields and files, each file under its field name
func ExecuteMultipart(t *testing.T, router *gin.Engine, method, url, token string, fields map[string]string, files map[string][][]byte) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for field, contents := range files {
		for i, content := range contents {
			part, err := mw.CreateFormFile(field, field+"-"+string(rune('a'+i))+".png")
			require.NoError(t, err)
			_, err = part.Write(content)
			require.NoError(t, err)
		}
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return serve(t, router, req, token)
}

func serve(t *testing.T, router *gin.Engine, req *http.Request, token string) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	if w.Body.Len() > 0 && json.Valid(w.Body.Bytes()) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return resp, w
}

// RegisterUser creates an account and returns its id and bearer token
func RegisterUser(t *testing.T, router *gin.Engine, email, name string) (string, string) {
	t.Helper()
	resp, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": "correct-horse",
		"name":     name,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := resp["data"].(map[string]any)
	user := data["user"].(map[string]any)
	return user["id"].(string), data["token"].(string)
}

// CreateListing posts a listing with the given minimum price and returns its id
func CreateListing(t *testing.T, router *gin.Engine, token, title, minPrice string, extra map[string]string) string {
	t.Helper()
	fields := map[string]string{"title": title, "address": "500 Oak Ave", "min_price": minPrice}
	for k, v := range extra {
		fields[k] = v
	}
	resp, w := ExecuteMultipart(t, router, http.MethodPost, "/api/properties", token, fields, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return resp["data"].(map[string]any)["id"].(string)
}

// PNGBytes returns a small valid PNG image
func PNGBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
