// aimtrace 是视角控制器的离线轨迹工具
//
// 不依赖窗口环境，按固定步长驱动控制器并逐tick打印姿态，
// 用于离线验证约束回弹和航向跟随的手感参数：
//
//	go run ./cmd/aimtrace -ticks 120 -impulse-yaw 60 -yaw-range 90
package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	"github.com/gonewx/fpsrig/pkg/aim"
	"github.com/gonewx/fpsrig/pkg/config"
)

var (
	ticksFlag    = flag.Int("ticks", 60, "Number of simulation ticks to run")
	dtFlag       = flag.Float64("dt", 1.0/60.0, "Simulation step in seconds")
	yawFlag      = flag.Float64("yaw", 0, "Continuous yaw input in degrees per second")
	pitchFlag    = flag.Float64("pitch", 0, "Continuous pitch input in degrees per second")
	impulseYaw   = flag.Float64("impulse-yaw", 0, "One-time yaw input applied on the first tick (degrees)")
	impulsePitch = flag.Float64("impulse-pitch", 0, "One-time pitch input applied on the first tick (degrees)")
	yawRangeFlag = flag.Float64("yaw-range", 0, "Yaw constraint range in degrees around the start heading (0 = unconstrained)")
	steeringFlag = flag.Float64("steering", 1, "Steering rate in [0,1]")
	tuningFlag   = flag.String("tuning", "", "Optional tuning config YAML file")
	everyFlag    = flag.Int("every", 1, "Print every N-th tick")
)

func main() {
	flag.Parse()

	tuning := config.DefaultTuningConfig()
	if *tuningFlag != "" {
		loaded, err := config.LoadTuningConfig(*tuningFlag)
		if err != nil {
			log.Fatalf("加载调参配置失败: %v", err)
		}
		tuning = loaded
	}

	cfg := aim.DefaultConfig()
	cfg.MaxPitch = tuning.Aim.MaxPitch
	cfg.PitchMin = tuning.Aim.PitchMin
	cfg.PitchMax = tuning.Aim.PitchMax
	cfg.SteeringRate = *steeringFlag
	cfg.TurnRateMultiplier = tuning.Aim.TurnRateMultiplier
	cfg.ConstraintDamping = tuning.Aim.ConstraintDamping
	cfg.ConstraintTolerance = tuning.Aim.ConstraintTolerance
	cfg.FalloffDegrees = tuning.Aim.FalloffDegrees

	controller, err := aim.NewController(cfg)
	if err != nil {
		log.Fatalf("创建控制器失败: %v", err)
	}

	if *yawRangeFlag > 0 {
		controller.SetYawConstraints(controller.Heading(), *yawRangeFlag)
	}

	fmt.Println("==========================================================")
	fmt.Printf("aimtrace: %d ticks @ %.4fs, steering=%.3f\n", *ticksFlag, *dtFlag, *steeringFlag)
	if *yawRangeFlag > 0 {
		fmt.Printf("yaw constraint: ±%.1f° around start heading\n", *yawRangeFlag/2)
	}
	fmt.Println("==========================================================")
	fmt.Printf("%6s %10s %10s %10s %10s\n", "tick", "aimYaw", "bodyYaw", "yawDiff", "pitch")

	dt := *dtFlag
	for tick := 0; tick < *ticksFlag; tick++ {
		if tick == 0 {
			controller.AddRotationInput(*impulseYaw, *impulsePitch)
		}
		controller.AddRotationInput(*yawFlag*dt, *pitchFlag*dt)
		controller.Update(dt)

		if tick%*everyFlag != 0 {
			continue
		}
		fmt.Printf("%6d %10.3f %10.3f %10.3f %10.3f\n",
			tick,
			compassYaw(controller, true),
			compassYaw(controller, false),
			controller.AimYawDiff(),
			controller.Pitch())
	}
}

// compassYaw 返回瞄准或身体朝向的罗盘角（度）
func compassYaw(c *aim.Controller, useAim bool) float64 {
	v := c.Heading()
	if useAim {
		v = c.AimHeading()
	}
	return math.Atan2(v.X, v.Z) * 180 / math.Pi
}
