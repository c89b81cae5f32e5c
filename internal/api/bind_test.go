package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe_backend/internal/shared/apperr"
)

type bindSample struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=5"`
	Name     string `json:"name" form:"name" binding:"required,notblank,max=10"`
	Age      int    `json:"age" form:"age" binding:"gte=0"`
}

func bindBody(t *testing.T, contentType, body string) error {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", contentType)
	var out bindSample
	return Bind(c, &out)
}

func TestBind(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		wantFields  map[string][]string
	}{
		{
			name:        "valid json",
			contentType: "application/json",
			body:        `{"email":"a@example.com","password":"secret","name":"Al"}`,
		},
		{
			name:        "valid form",
			contentType: "application/x-www-form-urlencoded",
			body:        "email=a%40example.com&password=secret&name=Al",
		},
		{
			name:        "field errors use json names",
			contentType: "application/json",
			body:        `{"email":"nope","password":"pw","name":"   "}`,
			wantFields: map[string][]string{
				"email":    {"Enter a valid email address."},
				"password": {"Ensure this field has at least 5 characters."},
				"name":     {"This field may not be blank."},
			},
		},
		{
			name:        "numeric bound",
			contentType: "application/json",
			body:        `{"email":"a@example.com","password":"secret","name":"Al","age":-1}`,
			wantFields:  map[string][]string{"age": {"Ensure this value is greater than or equal to 0."}},
		},
		{
			name:        "wrong json type",
			contentType: "application/json",
			body:        `{"email":"a@example.com","password":"secret","name":"Al","age":"x"}`,
			wantFields:  map[string][]string{"age": {"Incorrect type. Expected int."}},
		},
		{
			name:        "malformed json",
			contentType: "application/json",
			body:        `{"email" "x"}`,
			wantFields:  map[string][]string{apperr.NonFieldErrors: {"JSON parse error."}},
		},
		{
			name:        "empty body",
			contentType: "application/json",
			body:        ``,
			wantFields:  map[string][]string{apperr.NonFieldErrors: {"Request body is empty."}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := bindBody(t, tt.contentType, tt.body)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}
			v, ok := apperr.AsValidation(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, tt.wantFields, v.Fields)
		})
	}
}
