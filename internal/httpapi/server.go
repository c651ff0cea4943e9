// Package httpapi is the presentation layer: routing, multipart
// decoding, and the dashboard. It holds no decision logic.
package httpapi

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mhollander/limen/internal/limen/recog"
	"github.com/mhollander/limen/internal/limen/service"
)

// maxUploadBytes caps multipart uploads. Camera stills are well under
// 1 MiB; 10 MiB leaves room for phone photos used during enrollment.
const maxUploadBytes = 10 << 20

// Response is the envelope every endpoint answers with: an explicit
// success flag and either a payload or a human-readable error.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func okResponse(data any) Response {
	return Response{Success: true, Data: data}
}

func errResponse(msg string) Response {
	return Response{Success: false, Error: msg}
}

type Dependencies struct {
	Logger        *zap.Logger
	Addr          string
	AccessService *service.AccessService
}

type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	access     *service.AccessService
}

func NewServer(d Dependencies) *Server {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		logger: logger,
		access: d.AccessService,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(logger), cors())
	engine.MaxMultipartMemory = maxUploadBytes
	engine.SetHTMLTemplate(dashboardTmpl)

	engine.GET("/", s.handleDashboard)

	api := engine.Group("/api")
	api.POST("/people", s.handleEnroll)
	api.GET("/people", s.handleListPeople)
	api.POST("/access/check", s.handleCheckAccess)
	api.POST("/access/check-camera", s.handleCheckCamera)
	api.GET("/events", s.handleRecentEvents)

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleEnroll(c *gin.Context) {
	name := c.PostForm("name")
	image, err := formFileBytes(c, "photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, errResponse("photo upload is required"))
		return
	}

	res, err := s.access.Enroll(c.Request.Context(), name, image)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidName), errors.Is(err, service.ErrEmptyImage):
			c.JSON(http.StatusBadRequest, errResponse(err.Error()))
		case errors.Is(err, recog.ErrNoFaceDetected):
			c.JSON(http.StatusOK, errResponse("no face detected in image"))
		default:
			s.logger.Error("enroll failed", zap.Error(err))
			c.JSON(http.StatusOK, errResponse(err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, okResponse(res))
}

func (s *Server) handleCheckAccess(c *gin.Context) {
	image, err := formFileBytes(c, "photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, errResponse("photo upload is required"))
		return
	}

	dec, err := s.access.CheckAccess(c.Request.Context(), image)
	if err != nil {
		s.logger.Error("access check failed", zap.Error(err))
		c.JSON(http.StatusOK, errResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, okResponse(dec))
}

func (s *Server) handleCheckCamera(c *gin.Context) {
	dec, err := s.access.CheckAccessFromCamera(c.Request.Context())
	if err != nil {
		s.logger.Error("camera access check failed", zap.Error(err))
		c.JSON(http.StatusOK, errResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, okResponse(dec))
}

func (s *Server) handleListPeople(c *gin.Context) {
	names, err := s.access.ListPeople(c.Request.Context())
	if err != nil {
		s.logger.Error("list people failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errResponse("unexpected server error"))
		return
	}

	c.JSON(http.StatusOK, okResponse(names))
}

func (s *Server) handleRecentEvents(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, errResponse("limit must be a non-negative integer"))
		return
	}

	events, err := s.access.RecentEvents(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error("recent events failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errResponse("unexpected server error"))
		return
	}

	c.JSON(http.StatusOK, okResponse(eventViews(events)))
}

func formFileBytes(c *gin.Context, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, err
	}
	if fh.Size > maxUploadBytes {
		return nil, multipart.ErrMessageTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
