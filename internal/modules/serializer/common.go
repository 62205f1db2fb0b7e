package serializer

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/appforge/clientportal/internal/pkg/apperr"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var log = zap.NewNop()

// SetLogger sets the logger used for unexpected errors.
func SetLogger(l *zap.Logger) {
	if l != nil {
		log = l
	}
}

// Response
type Response struct {
	Code  int         `json:"code"`
	Data  interface{} `json:"data,omitempty"`
	Msg   string      `json:"msg"`
	Error string      `json:"error,omitempty"`
}

// TraceErrorResponse
type TrackedErrorResponse struct {
	Response
	TraceID string `json:"trace_id"`
}

// CheckLogin
func CheckLogin() Response {
	return Response{
		Code: http.StatusUnauthorized,
		Msg:  "please login first",
	}
}

// Err
func Err(errCode int, msg string, err error) Response {
	res := Response{
		Code: errCode,
		Msg:  msg,
	}
	// development mode, show error detail
	if err != nil && gin.Mode() != gin.ReleaseMode {
		res.Error = fmt.Sprintf("%+v", err)
	}
	return res
}

// DBErr
func DBErr(msg string, err error) Response {
	if msg == "" {
		msg = "database error"
	}
	return Err(http.StatusInternalServerError, msg, err)
}

// ParamErr
func ParamErr(msg string, err error) Response {
	if msg == "" {
		msg = "parameter error"
	}
	return Err(http.StatusBadRequest, msg, err)
}

// AuthErr
func AuthErr(msg string) Response {
	if msg == "" {
		msg = "authentication error"
	}
	return Err(http.StatusUnauthorized, msg, nil)
}

type errMapping struct {
	target error
	status int
}

// checked in order; the first match wins
var errMappings = []errMapping{
	{apperr.ErrUnauthenticated, http.StatusUnauthorized},
	{apperr.ErrInvalidCredentials, http.StatusUnauthorized},
	{apperr.ErrForbidden, http.StatusForbidden},
	{apperr.ErrNotFoundOrDenied, http.StatusNotFound},
	{apperr.ErrInvalidRepositoryURL, http.StatusBadRequest},
	{apperr.ErrInvalidInput, http.StatusBadRequest},
	{apperr.ErrInvalidState, http.StatusBadRequest},
	{apperr.ErrAttachmentsDisabled, http.StatusBadRequest},
	{apperr.ErrTokenMissing, http.StatusConflict},
	{apperr.ErrNotConnected, http.StatusConflict},
	{apperr.ErrEmailTaken, http.StatusConflict},
	{apperr.ErrProviderUnavailable, http.StatusBadGateway},
	{apperr.ErrOAuthExchangeFailed, http.StatusBadGateway},
}

// FromErr maps a service error to its HTTP status and envelope. Unknown
// errors become a 500 "database error" and are logged.
func FromErr(err error) (int, Response) {
	for _, m := range errMappings {
		if errors.Is(err, m.target) {
			return m.status, Err(m.status, m.target.Error(), err)
		}
	}
	log.Sugar().Errorw("unhandled error", "err", err)
	return http.StatusInternalServerError, DBErr("", err)
}

// Abort writes the mapped error and stops the handler chain.
func Abort(c *gin.Context, err error) {
	status, res := FromErr(err)
	c.AbortWithStatusJSON(status, res)
}
