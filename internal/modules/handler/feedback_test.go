package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/appforge/clientportal/internal/modules/model"
	"github.com/appforge/clientportal/internal/modules/service"
	"github.com/appforge/clientportal/internal/pkg/apperr"
)

func TestFeedbackHandler_CreateFeedback(t *testing.T) {
	project := createTestProject(testClient.UserID)

	multipartBody := func(t *testing.T, withFile bool) (*bytes.Buffer, string) {
		body := &bytes.Buffer{}
		mw := multipart.NewWriter(body)
		require.NoError(t, mw.WriteField("message", "Logo is blurry"))
		if withFile {
			fw, err := mw.CreateFormFile("file", "screen.png")
			require.NoError(t, err)
			_, err = fw.Write([]byte("png bytes"))
			require.NoError(t, err)
		}
		require.NoError(t, mw.Close())
		return body, mw.FormDataContentType()
	}

	tests := []struct {
		name           string
		request        func(t *testing.T) *http.Request
		setup          func(*MockFeedbackService)
		expectedStatus int
	}{
		{
			name: "json message",
			request: func(t *testing.T) *http.Request {
				req := httptest.NewRequest("POST", "/project/"+project.ID.String()+"/feedback", bytes.NewBufferString(`{"message":"Looks great"}`))
				req.Header.Set("Content-Type", "application/json")
				return req
			},
			setup: func(svc *MockFeedbackService) {
				svc.On("Create", mock.Anything, testClient, service.CreateFeedbackInput{ProjectID: project.ID, Message: "Looks great"}).
					Return(&model.Feedback{ProjectID: project.ID, Message: "Looks great"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "multipart with attachment",
			request: func(t *testing.T) *http.Request {
				body, ct := multipartBody(t, true)
				req := httptest.NewRequest("POST", "/project/"+project.ID.String()+"/feedback", body)
				req.Header.Set("Content-Type", ct)
				return req
			},
			setup: func(svc *MockFeedbackService) {
				svc.On("Create", mock.Anything, testClient, mock.MatchedBy(func(in service.CreateFeedbackInput) bool {
					return in.Message == "Logo is blurry" && in.File != nil && in.File.Filename == "screen.png"
				})).Return(&model.Feedback{ProjectID: project.ID, Message: "Logo is blurry"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "multipart without attachment",
			request: func(t *testing.T) *http.Request {
				body, ct := multipartBody(t, false)
				req := httptest.NewRequest("POST", "/project/"+project.ID.String()+"/feedback", body)
				req.Header.Set("Content-Type", ct)
				return req
			},
			setup: func(svc *MockFeedbackService) {
				svc.On("Create", mock.Anything, testClient, mock.MatchedBy(func(in service.CreateFeedbackInput) bool {
					return in.File == nil
				})).Return(&model.Feedback{ProjectID: project.ID}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "attachments not configured",
			request: func(t *testing.T) *http.Request {
				body, ct := multipartBody(t, true)
				req := httptest.NewRequest("POST", "/project/"+project.ID.String()+"/feedback", body)
				req.Header.Set("Content-Type", ct)
				return req
			},
			setup: func(svc *MockFeedbackService) {
				svc.On("Create", mock.Anything, testClient, mock.Anything).Return(nil, apperr.ErrAttachmentsDisabled)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing message",
			request: func(t *testing.T) *http.Request {
				req := httptest.NewRequest("POST", "/project/"+project.ID.String()+"/feedback", bytes.NewBufferString(`{}`))
				req.Header.Set("Content-Type", "application/json")
				return req
			},
			setup:          func(svc *MockFeedbackService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockFeedbackService{}
			tt.setup(mockService)
			handler := NewFeedbackHandler(mockService)

			router := setupRouter()
			router.POST("/project/:project_id/feedback", as(testClient, handler.CreateFeedback))

			w := httptest.NewRecorder()
			router.ServeHTTP(w, tt.request(t))

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}
