// Command roadviewd runs the scene synchronization pipeline: it polls the
// telemetry bus at the update frequency, refreshes the scene, serves it
// over HTTP and records scalar telemetry to the drive log.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/banshee-data/roadview/internal/api"
	"github.com/banshee-data/roadview/internal/config"
	"github.com/banshee-data/roadview/internal/drivelog"
	"github.com/banshee-data/roadview/internal/monitoring"
	"github.com/banshee-data/roadview/internal/scene"
	"github.com/banshee-data/roadview/internal/telemetry"
	"github.com/banshee-data/roadview/internal/timeutil"
	"github.com/banshee-data/roadview/internal/version"
	"github.com/banshee-data/roadview/internal/vision"
)

var (
	listen      = flag.String("listen", ":8080", "Listen address")
	configPath  = flag.String("config", "", "Optional tuning config JSON path")
	dbFile      = flag.String("db", "drive_log.db", "Drive log database path")
	noLog       = flag.Bool("no-drivelog", false, "Disable drive log recording")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("roadviewd %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	tuning := config.EmptyTuningConfig()
	if *configPath != "" {
		loaded, err := config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		tuning = loaded
	}

	bus := telemetry.NewBus()
	sync := scene.NewSynchronizer(tuning.SyncConfig())
	server := api.NewServer(bus, tuning.GetUnits())

	var logDB *drivelog.DB
	if !*noLog {
		db, err := drivelog.NewDB(*dbFile)
		if err != nil {
			log.Fatalf("open drive log: %v", err)
		}
		defer db.Close()
		logDB = db
	}

	frames := make(chan vision.Frame, 8)
	server.AttachFrameSink(frames)
	visionClient := vision.NewClient(frames, timeutil.RealClock{}, 0)

	var onroad atomic.Bool
	var sessionID string
	sync.OnSessionStart = func() {
		onroad.Store(true)
		if logDB == nil {
			return
		}
		id, err := logDB.StartSession(time.Now())
		if err != nil {
			monitoring.Logf("drive log: start session: %v", err)
			return
		}
		sessionID = id
		monitoring.Logf("drive log: session %s started", sessionID)
	}
	sync.OnSessionEnd = func() {
		onroad.Store(false)
		if logDB == nil || sessionID == "" {
			return
		}
		if err := logDB.EndSession(sessionID, time.Now()); err != nil {
			monitoring.Logf("drive log: end session: %v", err)
		} else {
			monitoring.Logf("drive log: session %s ended", sessionID)
		}
		sessionID = ""
	}

	httpSrv := &http.Server{Addr: *listen, Handler: server.Routes()}
	go func() {
		monitoring.Logf("roadviewd listening on %s", *listen)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go frameLoop(ctx, timeutil.RealClock{}, visionClient, &onroad)

	runLoop(ctx, timeutil.RealClock{}, bus, sync, server, logDB, &sessionID, tuning.GetRecordEveryTicks())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		monitoring.Logf("http shutdown: %v", err)
	}
	if logDB != nil && sessionID != "" {
		if err := logDB.EndSession(sessionID, time.Now()); err != nil {
			monitoring.Logf("drive log: end session: %v", err)
		}
	}
}

// frameLoop owns the vision client: connected and polling while a drive
// session is active, detached otherwise. Runs on its own goroutine so frame
// receive timeouts never stall the telemetry tick.
func frameLoop(ctx context.Context, clock timeutil.Clock, client *vision.Client, onroad *atomic.Bool) {
	for ctx.Err() == nil {
		if !onroad.Load() {
			if client.Connected() {
				client.Disconnect()
			}
			clock.Sleep(250 * time.Millisecond)
			continue
		}
		if !client.Connected() {
			client.Connect()
		}
		client.Poll()
	}
}

// runLoop drives the synchronizer at the update frequency until the context
// is cancelled. All scene mutation happens here, on this single goroutine.
func runLoop(ctx context.Context, clock timeutil.Clock, bus *telemetry.Bus,
	sync *scene.Synchronizer, server *api.Server, logDB *drivelog.DB,
	sessionID *string, recordEvery int) {

	ticker := clock.NewTicker(time.Second / scene.UpdateFreqHz)
	defer ticker.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
		}

		snap := bus.Poll()
		sync.Tick(snap)
		tick++

		server.PublishScene(sync.Snapshot(), tick)

		sc := sync.Scene()
		if logDB != nil && *sessionID != "" && sc.Started &&
			recordEvery > 0 && tick%uint64(recordEvery) == 0 {
			err := logDB.RecordTick(*sessionID, tick,
				float64(sc.SpeedMPS), float64(sc.SteeringAngleDeg), string(sc.Status))
			if err != nil {
				monitoring.Logf("drive log: %v", err)
			}
		}
	}
}
