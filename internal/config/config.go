// Package config handles demo configuration loading and management.
package config

// Config holds all demo settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Scene    SceneConfig    `yaml:"scene"`
	Motion   MotionConfig   `yaml:"motion"`
	Lighting LightingConfig `yaml:"lighting"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	Fullscreen    bool   `yaml:"fullscreen"`
	VSync         bool   `yaml:"vsync"`
	MSAA          int    `yaml:"msaa"` // Multisample count, 0 disables antialiasing
	Shadows       bool   `yaml:"shadows"`
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// SceneConfig holds asset and camera settings.
type SceneConfig struct {
	AssetPath  string     `yaml:"asset_path"`
	ModelScale [3]float64 `yaml:"model_scale"`
	GroundSize float32    `yaml:"ground_size"`
	GroundHex  uint32     `yaml:"ground_color"`
	CameraFOV  float64    `yaml:"camera_fov"` // Vertical field of view in degrees
	CameraNear float64    `yaml:"camera_near"`
	CameraFar  float64    `yaml:"camera_far"`
	CameraPos  [3]float32 `yaml:"camera_position"`
}

// MotionConfig holds actor steering parameters.
type MotionConfig struct {
	DefaultAccel float64 `yaml:"default_accel"`
	AccelStep    float64 `yaml:"accel_step"`
	YawStep      float64 `yaml:"yaw_step"`
	Bound        float64 `yaml:"bound"`
	AnimStep     float64 `yaml:"anim_step"` // Seconds of clip time per frame
}

// LightingConfig holds the ambient and spot light rig.
type LightingConfig struct {
	AmbientHex       uint32       `yaml:"ambient_color"`
	AmbientIntensity float32      `yaml:"ambient_intensity"`
	SpotHex          uint32       `yaml:"spot_color"`
	SpotIntensity    float32      `yaml:"spot_intensity"`
	SpotPosition     [3]float32   `yaml:"spot_position"`
	SpotAngle        float32      `yaml:"spot_angle"` // Radians
	SpotPenumbra     float32      `yaml:"spot_penumbra"`
	SpotDecay        float32      `yaml:"spot_decay"`
	SpotDistance     float32      `yaml:"spot_distance"`
	Shadow           ShadowConfig `yaml:"shadow"`
}

// ShadowConfig holds spot light shadow map settings.
type ShadowConfig struct {
	MapSize int32   `yaml:"map_size"`
	Bias    float32 `yaml:"bias"`
	Near    float32 `yaml:"near"`
	Far     float32 `yaml:"far"`
	Focus   float32 `yaml:"focus"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the stock scene.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:         1280,
			Height:        720,
			Fullscreen:    false,
			VSync:         true,
			MSAA:          4,
			Shadows:       true,
			ScreenshotDir: "screenshots",
		},
		Scene: SceneConfig{
			AssetPath:  "assets/billy_on_bike/scene.gltf",
			ModelScale: [3]float64{2, 0.6, 1},
			GroundSize: 100,
			GroundHex:  0xbcbcbc,
			CameraFOV:  40,
			CameraNear: 0.1,
			CameraFar:  1000,
			CameraPos:  [3]float32{18, 7, 12},
		},
		Motion: MotionConfig{
			DefaultAccel: 0.01,
			AccelStep:    0.001,
			YawStep:      0.05,
			Bound:        30,
			AnimStep:     0.01,
		},
		Lighting: LightingConfig{
			AmbientHex:       0xffffff,
			AmbientIntensity: 0.5,
			SpotHex:          0xffffff,
			SpotIntensity:    0.7,
			SpotPosition:     [3]float32{2, 12, 2},
			SpotAngle:        0.5235988, // pi/6
			SpotPenumbra:     0.5,
			SpotDecay:        1,
			SpotDistance:     0,
			Shadow: ShadowConfig{
				MapSize: 1024,
				Bias:    -0.001,
				Near:    1,
				Far:     60,
				Focus:   1,
			},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
