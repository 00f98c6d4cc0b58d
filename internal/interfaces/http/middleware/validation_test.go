package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hellcat/store/internal/interfaces/http/dto"
)

type checkoutForm struct {
	Name  string `json:"name" binding:"required,min=2"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required,in_phone"`
	Qty   int    `json:"qty" binding:"omitempty,gte=1,lte=5"`
}

func checkoutRouter(t *testing.T) *gin.Engine {
	t.Helper()
	require.NoError(t, SetupValidator())

	router := gin.New()
	router.Use(RequestID())
	router.POST("/checkout", func(c *gin.Context) {
		var req checkoutForm
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(req))
	})
	return router
}

func postJSON(router *gin.Engine, body string) (*httptest.ResponseRecorder, dto.Response) {
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp dto.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestSetupValidator(t *testing.T) {
	require.NoError(t, SetupValidator())
	require.NoError(t, SetupValidator())
}

func TestValidation_Phone(t *testing.T) {
	router := checkoutRouter(t)

	tests := []struct {
		phone string
		valid bool
	}{
		{"9876543210", true},
		{"+91 98765 43210", true},
		{"919876543210", true},
		{"1234567890", false},
		{"98765", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			body := `{"name":"Ravi","email":"ravi@example.com","phone":"` + tt.phone + `"}`
			w, resp := postJSON(router, body)
			if tt.valid {
				assert.Equal(t, http.StatusOK, w.Code)
				return
			}
			assert.Equal(t, http.StatusBadRequest, w.Code)
			require.NotNil(t, resp.Error)
			require.Len(t, resp.Error.Details, 1)
			assert.Equal(t, "phone", resp.Error.Details[0].Field)
			assert.Equal(t, "Invalid phone number", resp.Error.Details[0].Message)
		})
	}
}

func TestFormatValidationErrors(t *testing.T) {
	router := checkoutRouter(t)

	t.Run("field errors use json names", func(t *testing.T) {
		w, resp := postJSON(router, `{"name":"R","email":"bad","phone":"9876543210","qty":9}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.NotEmpty(t, resp.Error.RequestID)

		messages := map[string]string{}
		for _, d := range resp.Error.Details {
			messages[d.Field] = d.Message
		}
		assert.Equal(t, map[string]string{
			"name":  "Must be at least 2 characters",
			"email": "Invalid email format",
			"qty":   "Must be less than or equal to 5",
		}, messages)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, resp := postJSON(router, `{}`)

		require.NotNil(t, resp.Error)
		assert.Len(t, resp.Error.Details, 3)
		for _, d := range resp.Error.Details {
			assert.Equal(t, "This field is required", d.Message)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		w, resp := postJSON(router, `{"name":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
		assert.Contains(t, resp.Error.Message, "Malformed request")
		assert.Empty(t, resp.Error.Details)
	})
}
