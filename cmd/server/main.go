// Package main provides the entry point for the SocialSpark server: a web
// tool that turns one prompt into platform-tailored posts and images, with a
// LinkedIn OAuth popup flow for direct publishing.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/socialspark/socialspark/internal/api"
	"github.com/socialspark/socialspark/internal/auth/popup"
	"github.com/socialspark/socialspark/internal/auth/state"
	"github.com/socialspark/socialspark/internal/browser"
	"github.com/socialspark/socialspark/internal/config"
	"github.com/socialspark/socialspark/internal/generate"
	"github.com/socialspark/socialspark/internal/gemini"
	"github.com/socialspark/socialspark/internal/linkedin"
	"github.com/socialspark/socialspark/internal/logging"
	"github.com/socialspark/socialspark/internal/platform"
	"github.com/socialspark/socialspark/internal/session"
	"github.com/socialspark/socialspark/internal/share"
	"github.com/socialspark/socialspark/internal/watcher"
)

var (
	Version   = "dev"
	BuildDate = "unknown"
)

func init() {
	logging.SetupBaseLogger()
}

func main() {
	fmt.Printf("SocialSpark Version: %s, BuiltAt: %s\n", Version, BuildDate)

	var configPath string
	var linkedinLogin bool
	var noBrowser bool
	var sharePlatform string
	var shareText string
	flag.StringVar(&configPath, "config", "config.yaml", "Configure File Path")
	flag.BoolVar(&linkedinLogin, "linkedin-login", false, "Login to LinkedIn using OAuth and save the session")
	flag.BoolVar(&noBrowser, "no-browser", false, "Don't open browser automatically for OAuth")
	flag.StringVar(&sharePlatform, "share", "", "Share -text to the given platform and exit")
	flag.StringVar(&shareText, "text", "", "Post text for -share")
	flag.Parse()

	if wd, err := os.Getwd(); err == nil {
		if errLoad := godotenv.Load(filepath.Join(wd, ".env")); errLoad == nil {
			log.Debug("loaded environment from .env")
		}
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}
	if cfg.LoggingToFile {
		authDir, errDir := config.ResolveAuthDir(cfg.AuthDir)
		if errDir != nil {
			log.Fatalf("resolve auth dir failed: %v", errDir)
		}
		if errLog := logging.ConfigureFileOutput(filepath.Join(authDir, "logs")); errLog != nil {
			log.Fatalf("configure log output failed: %v", errLog)
		}
	}

	geminiClient := gemini.NewClient(cfg.Gemini.APIKey)
	generator := generate.NewService(geminiClient, geminiClient)
	auth := linkedin.NewAuth(cfg.LinkedIn.ClientID, cfg.LinkedIn.ClientSecret, cfg.LinkedIn.RedirectURI)
	publisher := linkedin.NewPublisher()
	states := state.NewStore(0)

	openURL := browser.OpenURL
	if noBrowser {
		openURL = func(url string) error {
			fmt.Printf("Open this URL in your browser:\n%s\n", url)
			return nil
		}
	}

	messenger := popup.NewMessenger(openURL)
	handler := api.NewHandler(geminiClient, generator, auth, publisher, states, messenger)
	server := api.NewServer(cfg, handler)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if linkedinLogin {
		runLinkedInLogin(ctx, cfg, server, states, auth, messenger)
		return
	}
	if sharePlatform != "" {
		runShare(ctx, cfg, server, states, auth, publisher, messenger, openURL, sharePlatform, shareText)
		return
	}

	// Only credentials take effect live; port, auth dir and log output are
	// fixed at startup. The shared Config is never written after this point.
	configWatcher, errWatch := watcher.NewWatcher(configPath, func(next *config.Config) {
		geminiClient.SetAPIKey(next.Gemini.APIKey)
		auth.UpdateCredentials(next.LinkedIn.ClientID, next.LinkedIn.ClientSecret, next.LinkedIn.RedirectURI)
	})
	if errWatch != nil {
		log.Warnf("config watcher unavailable: %v", errWatch)
	} else if errStart := configWatcher.Start(ctx); errStart != nil {
		log.Warnf("config watcher start failed: %v", errStart)
	} else {
		defer func() { _ = configWatcher.Stop() }()
	}

	if err = server.Run(ctx); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

// runLinkedInLogin performs the popup authorization flow headlessly: the
// embedded server receives the OAuth callback, the messenger resolves with
// the session, and the session is persisted for later publish runs.
func runLinkedInLogin(ctx context.Context, cfg *config.Config, server *api.Server, states *state.Store, auth *linkedin.Auth, messenger *popup.Messenger) {
	serverCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := server.Run(serverCtx); err != nil {
			log.Errorf("callback server exited: %v", err)
		}
	}()
	// Give the listener a moment to come up before the browser hits it.
	time.Sleep(100 * time.Millisecond)

	sess, err := messenger.Authorize(ctx, func() (string, string) {
		s := states.Register()
		return auth.AuthorizationURL(s), s
	})
	if err != nil {
		log.Fatalf("linkedin login failed: %v", err)
	}

	authDir, err := config.ResolveAuthDir(cfg.AuthDir)
	if err != nil {
		log.Fatalf("resolve auth dir failed: %v", err)
	}
	store := session.NewFileStore(authDir)
	if err = store.Set(sess); err != nil {
		log.Fatalf("save session failed: %v", err)
	}
	log.Infof("logged in as %s, session saved", sess.MemberURN)
}

// runShare routes one post through the share dispatcher from the command
// line: intent platforms open the pre-filled composer in the browser, and
// LinkedIn publishes through the content API with the saved session.
func runShare(ctx context.Context, cfg *config.Config, server *api.Server, states *state.Store, auth *linkedin.Auth, publisher *linkedin.Publisher, messenger *popup.Messenger, openURL popup.OpenFunc, tag, text string) {
	p := platform.Normalize(tag)
	if !platform.Known(p) {
		log.Fatalf("unknown platform %q", tag)
	}
	if text == "" {
		log.Fatal("-share requires -text")
	}

	serverCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := server.Run(serverCtx); err != nil {
			log.Errorf("callback server exited: %v", err)
		}
	}()
	time.Sleep(100 * time.Millisecond)

	authDir, err := config.ResolveAuthDir(cfg.AuthDir)
	if err != nil {
		log.Fatalf("resolve auth dir failed: %v", err)
	}

	authorize := func(ctx context.Context) (session.AuthSession, error) {
		return messenger.Authorize(ctx, func() (string, string) {
			s := states.Register()
			return auth.AuthorizationURL(s), s
		})
	}
	pageURL := fmt.Sprintf("http://localhost:%d/", cfg.Port)
	dispatcher := share.NewDispatcher(session.NewFileStore(authDir), authorize, publisher.Publish, share.OpenFunc(openURL), pageURL)

	if err = dispatcher.Share(ctx, p, platform.DerivePostContent(text, "")); err != nil {
		log.Fatalf("share failed: %v", err)
	}
	log.Infof("shared to %s", p)
}
