package server

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Faultbox/anvil/internal/terrain"
	"github.com/Faultbox/anvil/pkg/encoding"
	"github.com/Faultbox/anvil/pkg/formats"
	"github.com/Faultbox/anvil/pkg/mesh"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    terrain.Kind `json:"kind"`
	Field   string       `json:"field,omitempty"`
	Index   *int         `json:"index,omitempty"`
	Message string       `json:"message"`
}

// handleGenerate accepts a graph document and responds with the terrain.
func (s *Server) handleGenerate(c *gin.Context) {
	log := requestLog(c)
	mode := string(s.pipeline.Mode())

	body, err := c.GetRawData()
	if err != nil {
		s.fail(c, fmt.Errorf("%w: reading body: %v", terrain.ErrValidation, err))
		return
	}

	req, err := terrain.ParseRequest(body)
	if err != nil {
		s.fail(c, err)
		return
	}
	graph, err := terrain.Assemble(req)
	if err != nil {
		s.fail(c, err)
		return
	}
	for _, w := range graph.Warnings {
		log.Warn("bridge endpoint", zap.String("warning", w))
	}

	ctx := c.Request.Context()
	out, err := s.pipeline.Generate(ctx, graph, s.newRand())
	if err != nil {
		s.fail(c, err)
		return
	}

	doc, err := terrain.Serialize(out)
	if err != nil {
		s.fail(c, err)
		return
	}

	if err := s.delay(ctx); err != nil {
		s.fail(c, err)
		return
	}

	s.metrics.observeGeneration(mode, "ok", len(graph.Islands), len(graph.Bridges))
	log.Debug("terrain served",
		zap.Int("islands", len(graph.Islands)),
		zap.Int("bridges", len(graph.Bridges)),
		zap.Int("bytes", len(doc)))

	c.Data(http.StatusAccepted, "application/json", doc)
}

func (s *Server) handleHealth(c *gin.Context) {
	resp := gin.H{
		"status": "ok",
		"mode":   s.pipeline.Mode(),
	}
	if s.opts.Library != nil {
		resp["library"] = s.opts.Library.Len()
		resp["meshes"] = s.opts.Library.Names()
	}
	c.JSON(http.StatusOK, resp)
}

// newRand returns a random source local to one request.
func (s *Server) newRand() *rand.Rand {
	if s.opts.Seed != 0 {
		return rand.New(rand.NewPCG(s.opts.Seed, s.opts.Seed))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func (s *Server) delay(ctx context.Context) error {
	if s.opts.SimulatedLatency <= 0 {
		return nil
	}
	timer := time.NewTimer(s.opts.SimulatedLatency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", terrain.ErrGeneration, ctx.Err())
	}
}

// fail writes the error document and records the outcome.
func (s *Server) fail(c *gin.Context, err error) {
	kind := terrain.KindOf(err)
	status := StatusOf(err)

	detail := errorDetail{Kind: kind, Message: err.Error()}
	var fe *terrain.FieldError
	if errors.As(err, &fe) {
		detail.Field = fe.Field
		if fe.Index >= 0 {
			index := fe.Index
			detail.Index = &index
		}
	}

	s.metrics.observeGeneration(string(s.pipeline.Mode()), string(kind), 0, 0)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, errorBody{Error: detail})
}

// StatusOf maps an error to its HTTP status.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, terrain.ErrValidation), errors.Is(err, terrain.ErrIndexConflict):
		return http.StatusBadRequest
	case errors.Is(err, terrain.ErrGeneration):
		return http.StatusServiceUnavailable
	case errors.Is(err, encoding.ErrEncoding),
		errors.Is(err, encoding.ErrDecoding),
		errors.Is(err, encoding.ErrRange),
		errors.Is(err, formats.ErrParse),
		errors.Is(err, mesh.ErrCapacity),
		errors.Is(err, mesh.ErrShape):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
