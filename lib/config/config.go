package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/snuttools/snutt-proxy/lib/util"
)

var cfgSingleton ProxyConfig

type PrewarmTarget struct {
	Year     int
	Semester string
}

type ProxyConfig struct {
	LogLevel        string
	Port            string
	BindIP          string
	MetricsPort     string
	EnableMetrics   bool
	EnablePProf     bool
	RequestTimeout  time.Duration
	UpstreamBase    string
	APIKey          string
	AccessToken     string
	CacheTTL        time.Duration
	FreeRoomTTL     time.Duration
	RateWindow      time.Duration
	RateMax         int
	PageSize        int
	MaxPages        int
	PrewarmTargets  []PrewarmTarget
	PrewarmSchedule string
}

func Get() ProxyConfig {
	return cfgSingleton
}

func Parse() ProxyConfig {
	logLevel := util.EnvGet("LOG_LEVEL", "info")
	port := util.EnvGet("PORT", "8080")
	bindIp := util.EnvGet("BIND_IP", "0.0.0.0")
	metricsPort := util.EnvGet("METRICS_PORT", "9000")
	enableMetrics := util.EnvGetBool("ENABLE_METRICS", true)
	enablePprof := util.EnvGetBool("ENABLE_PPROF", false)
	timeout := util.EnvGetInt("REQUEST_TIMEOUT", 15000)
	base := strings.TrimRight(util.EnvGet("SNUTT_API_BASE", "https://snutt-api.wafflestudio.com"), "/")
	apiKey := os.Getenv("SNUTT_API_KEY")
	accessToken := os.Getenv("SNUTT_ACCESS_TOKEN")
	cacheTtl := util.EnvGetInt("SNUTT_CACHE_TTL_SECONDS", 1800)
	freeRoomTtl := util.EnvGetInt("FREE_ROOM_TTL_SECONDS", 60)
	rateWindow := util.EnvGetInt("SNUTT_RATE_LIMIT_WINDOW_MS", 60000)
	rateMax := util.EnvGetInt("SNUTT_RATE_LIMIT_MAX", 30)
	pageSize := util.EnvGetInt("PAGE_SIZE", 200)
	maxPages := util.EnvGetInt("MAX_PAGES", 100)
	prewarm := util.EnvGet("PREWARM_TARGETS", "")
	prewarmSchedule := util.EnvGet("PREWARM_SCHEDULE", "@every 20m")

	cfgSingleton = ProxyConfig{
		LogLevel:        logLevel,
		Port:            port,
		BindIP:          bindIp,
		MetricsPort:     metricsPort,
		EnableMetrics:   enableMetrics,
		EnablePProf:     enablePprof,
		RequestTimeout:  time.Duration(timeout) * time.Millisecond,
		UpstreamBase:    base,
		APIKey:          apiKey,
		AccessToken:     accessToken,
		CacheTTL:        time.Duration(cacheTtl) * time.Second,
		FreeRoomTTL:     time.Duration(freeRoomTtl) * time.Second,
		RateWindow:      time.Duration(rateWindow) * time.Millisecond,
		RateMax:         rateMax,
		PageSize:        pageSize,
		MaxPages:        maxPages,
		PrewarmTargets:  parsePrewarmTargets(prewarm),
		PrewarmSchedule: prewarmSchedule,
	}

	return cfgSingleton
}

func parsePrewarmTargets(targets string) []PrewarmTarget {
	// Format: "<year>:<semester>,<year>:<semester>"

	ret := make([]PrewarmTarget, 0)

	if targets == "" {
		return ret
	}

	targetList := strings.Split(targets, ",")
	for _, target := range targetList {
		opts := strings.Split(strings.TrimSpace(target), ":")
		if len(opts) != 2 {
			panic("Invalid prewarm targets")
		}

		year, err := strconv.ParseInt(opts[0], 10, 32)

		if err != nil {
			panic("Failed to parse prewarm target year")
		}

		ret = append(ret, PrewarmTarget{Year: int(year), Semester: opts[1]})
	}

	return ret
}
