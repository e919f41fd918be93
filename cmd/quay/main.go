package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"os"

	webview "github.com/webview/webview_go"
	"golang.org/x/sync/errgroup"

	"github.com/quaybridge/quay/host"
	"github.com/quaybridge/quay/internal/config"
	"github.com/quaybridge/quay/internal/logger"
)

func main() {
	slogger := logger.New()

	appCfg, err := config.Load()
	if err != nil {
		slogger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	hostCfg, err := host.LoadConfig()
	if err != nil {
		slogger.Error("failed to load host config", "err", err)
		os.Exit(1)
	}
	if hostCfg.StorageDir == "" {
		hostCfg.StorageDir = appCfg.StorageDir
	}

	var store host.SecureStore
	var badgerStore *host.BadgerStore
	if hostCfg.Keychain {
		store = host.NewKeyringStore("quay")
	} else {
		badgerStore, err = host.OpenBadgerStore(hostCfg.StorageDir)
		if err != nil {
			slogger.Error("failed to open store", "err", err)
			os.Exit(1)
		}
		store = badgerStore
	}

	hub := host.NewHub(slogger)
	feats := host.NewFeatures(hub, store, slogger, hostCfg.Latitude, hostCfg.Longitude)
	registry := host.NewRegistry()
	feats.RegisterBuiltins(registry)

	var opts []host.ServerOption
	if hostCfg.CSRF {
		key, err := base64.StdEncoding.DecodeString(appCfg.CSRFKey)
		if err != nil {
			slogger.Error("invalid csrf key", "err", err)
			os.Exit(1)
		}
		opts = append(opts, host.WithCSRF(host.NewTokenIssuer(key)))
	}
	srv := host.NewServer(registry, hub, slogger, opts...)

	listener, err := net.Listen("tcp", hostCfg.Addr)
	if err != nil {
		slogger.Error("failed to listen", "err", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf("http://%s", listener.Addr())
	srv.SetBaseURL(addr)
	slogger.Info("host starting", "addr", addr)

	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return http.Serve(listener, srv.Router())
	})
	if badgerStore != nil {
		g.Go(func() error {
			return badgerStore.RunGC(ctx)
		})
	}

	w := webview.New(true)
	defer w.Destroy()
	w.SetTitle("Quay Dev")
	w.SetSize(1040, 768, webview.HintMin)
	w.Navigate(addr)
	w.Run()

	slogger.Info("window closed, shutting down")
	cancel()
	listener.Close()
	g.Wait()
	if badgerStore != nil {
		badgerStore.Close()
	}
}
