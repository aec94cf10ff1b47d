package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"slotmath/internal/conf"

	"github.com/yola1107/kratos/v2/config"
	"github.com/yola1107/kratos/v2/config/file"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name is the name of the compiled software.
	Name = "rtp"
	// Version is the version of the compiled software.
	Version string
	// flagconf is the config flag.
	flagconf string
)

func init() {
	flag.StringVar(&flagconf, "conf", "../../configs", "config path, eg: -conf config.yaml")
}

// newLogger 控制台 + 滚动文件双写
func newLogger() *zap.Logger {
	fileSink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   "./logs/rtp.log",
		MaxSize:    100, // MB
		MaxBackups: 5,
		MaxAge:     7, // days
	})
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()), zapcore.Lock(os.Stdout), zapcore.InfoLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), fileSink, zapcore.InfoLevel),
	)
	return zap.New(core).Named(Name)
}

func main() {
	flag.Parse()

	logger := newLogger()
	defer logger.Sync()

	c := config.New(
		config.WithSource(
			file.NewSource(flagconf),
		),
	)
	defer c.Close()

	if err := c.Load(); err != nil {
		panic(err)
	}

	var bc conf.Bootstrap
	if err := c.Scan(&bc); err != nil {
		panic(err)
	}
	if bc.Run == nil {
		panic("config missing run section")
	}

	svc, cleanup, err := wireApp(bc.Data, logger)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := svc.Run(ctx, bc.Run); err != nil {
		logger.Error("run failed", zap.Error(err))
		os.Exit(1)
	}
}
