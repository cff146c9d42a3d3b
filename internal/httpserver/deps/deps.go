package deps

import (
	"time"

	"github.com/MrSnakeDoc/myquran/internal/bookmark"
	"github.com/MrSnakeDoc/myquran/internal/index"
	"github.com/MrSnakeDoc/myquran/internal/logger"
	"github.com/MrSnakeDoc/myquran/internal/player"
	"github.com/MrSnakeDoc/myquran/internal/quran"
	"github.com/MrSnakeDoc/myquran/internal/reader"
	"github.com/MrSnakeDoc/myquran/internal/scheduler"
)

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	TimeNow       func() time.Time           // for testing, defaults to time.Now
	AllowedHosts  []string                   // Host headers allowed on /infra and /reload
	AllowedCIDRS  []string                   // IPs allowed to access /infra and /reload
	TrustProxy    bool                       // true if running behind a trusted reverse proxy (e.g., cloudflared)
	CORSOrigins   []string                   // origins allowed to call /api, "*" = any
	APIRate       float64                    // requests per second per client IP on /api, 0 = unlimited
	APIBurst      int                        // burst per client IP on /api
	Reader        *reader.Reader             // browse, read and search views
	Bookmarks     *bookmark.Store            // device-local bookmark store
	Sessions      *player.Sessions           // live audio player sessions
	Chapters      *index.ChapterIndex        // in-memory chapter catalogue
	Quran         *quran.Client              // upstream client, for cache stats (nil in some tests)
	Catalog       *scheduler.CatalogReloader // catalogue reloader status (nil if not started)
	ReloadTrigger chan struct{}              // Channel to trigger manual catalogue reload
}
