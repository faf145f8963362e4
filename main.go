package main

import (
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v2"

	"github.com/matt-g-everett/scenetx/api"
	"github.com/matt-g-everett/scenetx/device"
	"github.com/matt-g-everett/scenetx/render"
	"github.com/matt-g-everett/scenetx/scene"
	"github.com/matt-g-everett/scenetx/stream"
)

type app struct {
	Config     stream.Config
	Client     mqtt.Client
	Streamer   *stream.Streamer
	Dispatcher *stream.Dispatcher
}

func newApp() *app {
	a := new(app)
	return a
}

func (a *app) readConfig(configPath string) {
	f, err := os.Open(configPath)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	err = decoder.Decode(&a.Config)
	if err != nil {
		panic(err)
	}
}

// buildDemoScene populates the scene with a few moving elements so a fresh
// install shows something on the attached displays.
func buildDemoScene(sc *scene.Scene, width, height float64) {
	title := scene.NewText("scenetx", scene.Point{X: width / 2, Y: 20})
	sc.Add(title)
	sc.SetMotion(title, &scene.MotionConfig{
		Law:       scene.LawOscillate,
		Speed:     1.5,
		Radius:    15,
		Direction: scene.Point{X: 0, Y: 1},
	})

	ball := scene.NewShape(scene.ShapeCircle, scene.Point{X: 40, Y: 40}, scene.Size{W: 24, H: 24})
	ball.Fill, _ = colorful.Hex("#4080ff")
	sc.Add(ball)
	sc.SetMotion(ball, &scene.MotionConfig{
		Law:               scene.LawBounce,
		Speed:             80,
		Direction:         scene.Point{X: 1, Y: 0.7},
		RespectBoundaries: true,
		ShowTrail:         true,
		TrailLength:       30,
	})

	box := scene.NewShape(scene.ShapeRectangle, scene.Point{X: width / 2, Y: height / 2}, scene.Size{W: 20, H: 20})
	box.Fill, _ = colorful.Hex("#ff8040")
	sc.Add(box)
	sc.SetMotion(box, &scene.MotionConfig{
		Law:    scene.LawOrbit,
		Speed:  1.0,
		Radius: 50,
	})
}

func (a *app) run() {
	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		panic(token.Error())
	}

	if a.Config.Pipeline.Realtime {
		a.Dispatcher.SetRealTimeMode(true)
	}
	a.Streamer.Start(a.Config.Pipeline.FPS)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	a.Streamer.Stop()
}

func main() {
	mqtt.ERROR = log.New(os.Stdout, "", 0)

	configPath := flag.String("config", "config.yaml", "YAML config file.")
	flag.Parse()

	rand.Seed(time.Now().UTC().UnixNano())

	a := newApp()
	a.readConfig(*configPath)
	log.Printf("Config: %+v", a.Config)

	options := mqtt.NewClientOptions().
		AddBroker(a.Config.Mqtt.URL).
		SetClientID("scenetx").
		SetUsername(a.Config.Mqtt.Username).
		SetPassword(a.Config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second)
	a.Client = mqtt.NewClient(options)

	width := a.Config.Canvas.Width
	height := a.Config.Canvas.Height
	background, err := colorful.Hex(a.Config.Canvas.Background)
	if err != nil {
		background = colorful.Color{}
	}

	sc := scene.NewScene()
	engine := scene.NewEngine(float64(width), float64(height))
	renderer := render.NewSoftware(width, height, background, render.NewImages())
	notifier := stream.NewNotifier()

	transport := device.NewMqttTransport(a.Client, a.Config.Mqtt.Devices,
		a.Config.Mqtt.Topics.Stream, a.Config.Mqtt.Topics.Realtime)
	dispatcher := stream.NewDispatcher(transport, notifier, a.Config.Pipeline.Quality)
	a.Dispatcher = dispatcher

	sendInterval := time.Duration(a.Config.Pipeline.SendIntervalMs) * time.Millisecond
	a.Streamer = stream.NewStreamer(sc, engine, renderer, dispatcher, notifier, sendInterval)

	buildDemoScene(sc, float64(width), float64(height))

	server := api.NewApi(notifier, a.Config.API.Listen)
	go server.Serve()

	a.run()
}
