package stream

type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Topics   struct {
			Stream   string `yaml:"stream"`
			Realtime string `yaml:"realtime"`
		} `yaml:"topics"`
		Devices []string `yaml:"devices"`
	} `yaml:"mqtt"`
	Canvas struct {
		Width      int    `yaml:"width"`
		Height     int    `yaml:"height"`
		Background string `yaml:"background"`
	} `yaml:"canvas"`
	Pipeline struct {
		FPS            int  `yaml:"fps"`
		Quality        int  `yaml:"quality"`
		SendIntervalMs int  `yaml:"sendIntervalMs"`
		Realtime       bool `yaml:"realtime"`
	} `yaml:"pipeline"`
	API struct {
		Listen string `yaml:"listen"`
	} `yaml:"api"`
}
