package v1

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lanwatch/internal/api/response"
	"lanwatch/internal/types"
	"lanwatch/internal/utils"
	"lanwatch/internal/version"
)

// DeviceStore is the registry surface the API reads from
type DeviceStore interface {
	Snapshot() []types.Device
	Get(ip string) (types.Device, bool)
	Counts() (online, offline int)
}

// ScanController exposes scheduler state and manual scan triggering
type ScanController interface {
	TriggerScan() bool
	Status() types.ScanStatus
}

// API represents the API
type API struct {
	store     DeviceStore
	scheduler ScanController
	logger    *zap.Logger
	startTime time.Time
}

// NewAPI creates new API
func NewAPI(store DeviceStore, scheduler ScanController, logger *zap.Logger) *API {
	return &API{
		store:     store,
		scheduler: scheduler,
		logger:    logger,
		startTime: time.Now(),
	}
}

// RegisterRoutes registers API routes
func (api *API) RegisterRoutes(r *gin.RouterGroup) {
	devices := r.Group("/devices")
	{
		devices.GET("", api.getDevices)
		devices.GET("/:ip", api.getDevice)
	}

	scan := r.Group("/scan")
	{
		scan.GET("", api.getScanStatus)
		scan.POST("", api.triggerScan)
	}

	r.GET("/health", api.healthCheck)
}

// deviceView is the wire representation of a device record. MAC is a
// pointer so unknown hardware addresses serialize as null rather than
// an empty string.
type deviceView struct {
	IP        string             `json:"ip"`
	MAC       *string            `json:"mac"`
	Hostname  string             `json:"hostname"`
	Status    types.DeviceStatus `json:"status"`
	LastSeen  time.Time          `json:"last_seen"`
	FirstSeen time.Time          `json:"first_seen"`
}

func toView(dev types.Device) deviceView {
	view := deviceView{
		IP:        dev.IP,
		Hostname:  dev.Hostname,
		Status:    dev.Status,
		LastSeen:  dev.LastSeen,
		FirstSeen: dev.FirstSeen,
	}
	if dev.MAC != "" {
		mac := dev.MAC
		view.MAC = &mac
	}
	return view
}

// getDevices returns all known devices ordered by IP ascending
func (api *API) getDevices(c *gin.Context) {
	devices := api.store.Snapshot()

	views := make([]deviceView, 0, len(devices))
	for _, dev := range devices {
		views = append(views, toView(dev))
	}

	response.New(c, api.logger).Success(views)
}

// getDevice returns a single device record
func (api *API) getDevice(c *gin.Context) {
	resp := response.New(c, api.logger)

	ip := c.Param("ip")
	if !utils.IsValidIPv4(ip) {
		resp.BadRequest(errors.New("invalid IPv4 address"))
		return
	}

	dev, ok := api.store.Get(ip)
	if !ok {
		resp.NotFound(errors.New("device not found"))
		return
	}

	resp.Success(toView(dev))
}

// getScanStatus returns the scheduler state
func (api *API) getScanStatus(c *gin.Context) {
	response.New(c, api.logger).Success(api.scheduler.Status())
}

// triggerScan requests an immediate scan cycle
func (api *API) triggerScan(c *gin.Context) {
	resp := response.New(c, api.logger)

	if !api.scheduler.TriggerScan() {
		resp.Conflict(errors.New("scan already in progress"))
		return
	}

	resp.Accepted(gin.H{"status": "scan scheduled"})
}

// healthCheck returns service health
func (api *API) healthCheck(c *gin.Context) {
	online, offline := api.store.Counts()

	response.New(c, api.logger).Success(gin.H{
		"status":  "healthy",
		"version": version.GetInfo().Version,
		"uptime":  time.Since(api.startTime).String(),
		"devices": gin.H{
			"online":  online,
			"offline": offline,
		},
	})
}
