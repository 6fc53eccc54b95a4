// Package api provides the REST API server for mdsyx2midi
package api

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/carrierdown/elektron-sysex-to-midi/pkg/converter"
	"github.com/carrierdown/elektron-sysex-to-midi/pkg/converter/devices"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title MDSysEx2MIDI API
// @version 1.0
// @description API for converting Elektron Machinedrum SysEx pattern dumps to MIDI
// @host localhost:8080
// @BasePath /api/v1

// ConversionIDHeader carries the id of a conversion response
const ConversionIDHeader = "X-Conversion-ID"

// ParamsSummary holds the scalar record fields
type ParamsSummary struct {
	AccentAmount    uint8 `json:"accent_amount"`
	Length          uint8 `json:"length"`
	TempoMultiplier uint8 `json:"tempo_multiplier"`
	Scale           uint8 `json:"scale"`
	Kit             uint8 `json:"kit"`
}

// PatternSummary describes one pattern record of an uploaded dump
type PatternSummary struct {
	Index    int            `json:"index"`
	Offset   int            `json:"offset"`
	Filename string         `json:"filename"`
	Valid    bool           `json:"valid"`
	Trigs    int            `json:"trigs"`
	Steps    int            `json:"steps"`
	Grid     []string       `json:"grid,omitempty"`
	Params   *ParamsSummary `json:"params,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// PatternsResponse is the body of the patterns endpoint
type PatternsResponse struct {
	ID       string           `json:"id"`
	Device   string           `json:"device"`
	Patterns []PatternSummary `json:"patterns"`
}

// StartServer starts the API server on the specified port
func StartServer(port int) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: NewHandler(),
	}
	return srv.ListenAndServe()
}

// NewHandler returns the API router wrapped with CORS handling
func NewHandler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{"Content-Disposition", ConversionIDHeader},
	})
	return c.Handler(NewRouter())
}

// NewRouter creates the gin engine with all routes
func NewRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/health", healthCheck)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/formats", listFormats)
		v1.GET("/devices", listDevices)
		v1.POST("/patterns", handlePatterns)
		v1.POST("/convert/syx2midi", handleSyxToMIDI)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "mdsyx2midi",
	})
}

// listFormats godoc
// @Summary List supported formats
// @Description Returns a list of supported file formats
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/formats [get]
func listFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"formats":     []string{string(converter.FormatSyx), string(converter.FormatMIDI)},
		"conversions": converter.GetSupportedConversions(),
	})
}

// listDevices godoc
// @Summary List supported devices
// @Description Returns a list of supported Elektron devices
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]devices.Info
// @Router /api/v1/devices [get]
func listDevices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"devices": devices.List(),
	})
}

// handlePatterns godoc
// @Summary Inspect the patterns of a SysEx dump
// @Description Upload a .syx dump and receive a summary of every pattern record
// @Tags convert
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "SysEx dump"
// @Param device query string false "Source device (default: md)"
// @Param root_note query int false "MIDI note of track 0"
// @Success 200 {object} PatternsResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/patterns [post]
func handlePatterns(c *gin.Context) {
	conv, results, ok := convertUpload(c)
	if !ok {
		return
	}

	root := conv.Options().MIDI.RootNote
	resp := PatternsResponse{
		ID:       uuid.New().String(),
		Device:   conv.GetDevice().ID(),
		Patterns: make([]PatternSummary, 0, len(results)),
	}
	for _, r := range results {
		resp.Patterns = append(resp.Patterns, summarize(r, root))
	}
	c.Header(ConversionIDHeader, resp.ID)
	c.JSON(http.StatusOK, resp)
}

// handleSyxToMIDI godoc
// @Summary Convert a SysEx dump to MIDI
// @Description Upload a .syx dump and receive a zip archive with one MIDI file per pattern
// @Tags convert
// @Accept multipart/form-data
// @Produce application/zip
// @Param file formData file true "SysEx dump"
// @Param device query string false "Source device (default: md)"
// @Param root_note query int false "MIDI note of track 0"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/convert/syx2midi [post]
func handleSyxToMIDI(c *gin.Context) {
	_, results, ok := convertUpload(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	written := 0
	for _, r := range results {
		if r.Data == nil {
			continue
		}
		w, err := zw.Create(r.Filename)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if _, err := w.Write(r.Data); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		written++
	}
	if err := zw.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if written == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No patterns found"})
		return
	}

	id := uuid.New().String()
	c.Header(ConversionIDHeader, id)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=patterns-%s.zip", id))
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}

// convertUpload reads the uploaded dump and converts it; on failure the
// error response has been written
func convertUpload(c *gin.Context) (*converter.Converter, []converter.Result, bool) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return nil, nil, false
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return nil, nil, false
	}
	if converter.DetectFormatFromContent(data) != converter.FormatSyx {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is not a SysEx dump"})
		return nil, nil, false
	}

	conv, err := converterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, nil, false
	}

	results, err := conv.ConvertDump(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, nil, false
	}
	return conv, results, true
}

func converterFromQuery(c *gin.Context) (*converter.Converter, error) {
	device, err := devices.Lookup(c.DefaultQuery("device", "md"))
	if err != nil {
		return nil, err
	}
	opts := converter.DefaultOptions(device)
	if s := c.Query("root_note"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 || n > 127 {
			return nil, errors.New("root_note must be a MIDI note number")
		}
		opts.MIDI.RootNote = uint8(n)
	}
	return converter.NewWithOptions(device, opts), nil
}

func summarize(r converter.Result, root uint8) PatternSummary {
	s := PatternSummary{
		Index:    r.Index,
		Offset:   r.Offset,
		Filename: r.Filename,
	}
	if r.Err != nil {
		s.Error = r.Err.Error()
	}
	if r.Record == nil {
		return s
	}

	rec := r.Record
	s.Valid = rec.Valid
	s.Trigs = rec.Pattern.TrigCount()
	s.Steps = rec.Pattern.Steps()
	s.Grid = rec.Pattern.Rows(root)
	s.Params = &ParamsSummary{
		AccentAmount:    rec.Params.AccentAmount,
		Length:          rec.Params.Length,
		TempoMultiplier: rec.Params.TempoMultiplier,
		Scale:           rec.Params.Scale,
		Kit:             rec.Params.Kit,
	}
	for _, w := range rec.Warnings {
		s.Warnings = append(s.Warnings, w.Error())
	}
	return s
}
