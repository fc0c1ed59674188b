// Package app 提供演示程序的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来：创建设置管理器、输入整形器、
// 视角控制器和移动积分器，并把它们组装成一个 ebiten.Game。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/quasilyte/gdata/v2"

	"github.com/gonewx/fpsrig/pkg/aim"
	"github.com/gonewx/fpsrig/pkg/config"
	"github.com/gonewx/fpsrig/pkg/game"
	"github.com/gonewx/fpsrig/pkg/input"
	"github.com/gonewx/fpsrig/pkg/types"
	"github.com/gonewx/fpsrig/pkg/utils"
)

// 窗口逻辑尺寸
const (
	GameWindowWidth  = 960
	GameWindowHeight = 540
)

// 模拟步长，固定 60Hz tick
const tickDelta = 1.0 / 60.0

// 水平视野的一半（度），用于罗盘条和地面网格的投影
const halfFOVDegrees = 45.0

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// TuningPath 指定调参配置文件路径，为空则使用内置默认值
	TuningPath string
}

// App 是演示程序的核心包装器，实现 ebiten.Game 接口
type App struct {
	settings   *game.SettingsManager
	shaper     *input.MouseShaper
	source     *input.MouseSource
	controller *aim.Controller
	movement   *game.Movement
	inventory  *game.Inventory
	animator   *game.Animator

	tuning   *config.TuningConfig
	tuningCh chan *config.TuningConfig
	watcher  *config.TuningWatcher

	captured  bool
	showDebug bool
	verbose   bool

	// 武器切换时的HUD闪烁进度，1→0 衰减
	switchFlash float64
}

// NewApp 创建并初始化演示应用
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	// 打开 gdata 跨平台存储，失败时降级为纯内存设置
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] Failed to prepare storage directory: %v", err)
	}
	gdataManager, err := gdata.Open(gdata.Config{AppName: "fpsrig"})
	if err != nil {
		log.Printf("[App] Failed to open gdata storage, running without persistence: %v", err)
		gdataManager = nil
	}

	settings, err := game.NewSettingsManager(gdataManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create settings manager: %w", err)
	}
	if err := settings.Load(); err != nil {
		log.Printf("[App] Failed to load input settings, using defaults: %v", err)
	}

	// 加载调参配置
	tuning := config.DefaultTuningConfig()
	if cfg.TuningPath != "" {
		loaded, err := config.LoadTuningConfig(cfg.TuningPath)
		if err != nil {
			log.Printf("[App] Failed to load tuning config, using defaults: %v", err)
		} else {
			tuning = loaded
			log.Printf("[App] Loaded tuning config from %s", cfg.TuningPath)
		}
	}

	controller, err := aim.NewController(controllerConfig(tuning.Aim))
	if err != nil {
		return nil, fmt.Errorf("failed to create aim controller: %w", err)
	}

	app := &App{
		settings:   settings,
		shaper:     input.NewMouseShaper(settings, tuning.Shaper, settings),
		source:     input.NewMouseSource(),
		controller: controller,
		movement:   game.NewMovement(tuning.Movement),
		inventory: game.NewInventory(
			game.Weapon{ID: "rifle", Name: "Rifle"},
			game.Weapon{ID: "shotgun", Name: "Shotgun"},
			game.Weapon{ID: "pistol", Name: "Pistol"},
		),
		animator: game.NewAnimator(cfg.Verbose),
		tuning:   tuning,
		tuningCh: make(chan *config.TuningConfig, 1),
		verbose:  cfg.Verbose,
	}

	// 监视调参文件实现热重载；回调运行在监视goroutine上，
	// 通过channel转交给模拟线程应用
	if cfg.TuningPath != "" {
		watcher, err := config.WatchTuningConfig(cfg.TuningPath, func(reloaded *config.TuningConfig) {
			select {
			case app.tuningCh <- reloaded:
			default:
			}
		})
		if err != nil {
			log.Printf("[App] Failed to watch tuning config: %v", err)
		} else {
			app.watcher = watcher
		}
	}

	log.Printf("[App] Initialized, press Escape to capture the mouse")
	return app, nil
}

// controllerConfig 把调参配置翻译成视角控制器配置
func controllerConfig(a config.AimTuning) aim.Config {
	cfg := aim.DefaultConfig()
	cfg.MaxPitch = a.MaxPitch
	cfg.PitchMin = a.PitchMin
	cfg.PitchMax = a.PitchMax
	cfg.SteeringRate = a.SteeringRate
	cfg.TurnRateMultiplier = a.TurnRateMultiplier
	cfg.ConstraintDamping = a.ConstraintDamping
	cfg.ConstraintTolerance = a.ConstraintTolerance
	cfg.FalloffDegrees = a.FalloffDegrees
	return cfg
}

// Close 释放应用持有的资源
func (a *App) Close() error {
	if a.watcher != nil {
		return a.watcher.Close()
	}
	return nil
}

// Update 更新模拟逻辑，每个 tick 调用一次（每秒 60 次）
func (a *App) Update() error {
	// 应用热重载的调参配置（不阻塞）
	select {
	case tuning := <-a.tuningCh:
		a.applyTuning(tuning)
	default:
	}

	a.handleToggleKeys()
	a.handleSettingsKeys()
	a.handleWeaponKeys()

	// 鼠标视角输入，仅在捕获状态下生效
	if a.captured {
		dx, dy := a.source.LookDelta()
		yaw, pitch := a.shaper.Shape(dx, dy, tickDelta)
		a.controller.AddRotationInput(yaw, pitch)
	}

	// WASD 移动，沿身体朝向的水平面
	forward := a.controller.Heading()
	right := a.controller.YawUp().Cross(forward)
	var wish types.Vec3
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		wish = wish.Add(forward)
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		wish = wish.Sub(forward)
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		wish = wish.Add(right)
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		wish = wish.Sub(right)
	}
	jump := inpututil.IsKeyJustPressed(ebiten.KeySpace)
	a.movement.Step(tickDelta, wish, jump)

	a.controller.Update(tickDelta)

	// 驱动动画参数
	weaponID := ""
	if weapon, ok := a.inventory.Active(); ok {
		weaponID = weapon.ID
	}
	a.animator.Apply(game.AnimationParams{
		Speed:      a.movement.Speed(),
		Grounded:   a.movement.Grounded(),
		Pitch:      a.controller.Pitch(),
		AimYawDiff: a.controller.AimYawDiff(),
		WeaponID:   weaponID,
	})

	if a.switchFlash > 0 {
		a.switchFlash = math.Max(0, a.switchFlash-tickDelta/0.4)
	}
	return nil
}

// applyTuning 把热重载的调参配置应用到正在运行的组件上
// 视角控制器保留当前姿态，只替换可变参数
func (a *App) applyTuning(tuning *config.TuningConfig) {
	a.tuning = tuning
	a.controller.SetSteeringRate(tuning.Aim.SteeringRate)
	a.controller.SetTurnRateMultiplier(tuning.Aim.TurnRateMultiplier)
	a.controller.SetPitchConstraints(tuning.Aim.PitchMin, tuning.Aim.PitchMax)
	a.shaper.SetTuning(tuning.Shaper)
	a.movement.SetConfig(tuning.Movement)
	log.Printf("[App] Applied reloaded tuning config")
}

// handleToggleKeys 处理捕获、调试和全屏切换
func (a *App) handleToggleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.captured = !a.captured
		if a.captured {
			ebiten.SetCursorMode(ebiten.CursorModeCaptured)
			log.Printf("[App] Mouse captured")
		} else {
			ebiten.SetCursorMode(ebiten.CursorModeVisible)
			log.Printf("[App] Mouse released")
		}
		// 捕获切换会产生一次大的光标跳变，丢弃本帧增量
		a.source.Reset()
		a.controller.SetEnabled(a.captured)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		a.showDebug = !a.showDebug
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
}

// handleSettingsKeys 处理输入设置热键
// 每次修改立即生效（整形器订阅了设置变更），F5 持久化
func (a *App) handleSettingsKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyI) {
		a.settings.SetInvertVertical(!a.settings.InvertVertical())
		log.Printf("[App] Invert vertical: %v", a.settings.InvertVertical())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyK) {
		a.settings.SetSmoothing(!a.settings.SmoothingEnabled(), a.settings.SmoothingStrength())
		log.Printf("[App] Smoothing: %v", a.settings.SmoothingEnabled())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		a.settings.SetAcceleration(!a.settings.AccelerationEnabled(), a.settings.AccelerationStrength())
		log.Printf("[App] Acceleration: %v", a.settings.AccelerationEnabled())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		a.adjustSensitivity(-0.05)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		a.adjustSensitivity(0.05)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		if err := a.settings.Save(); err != nil {
			log.Printf("[App] Failed to save input settings: %v", err)
		} else {
			log.Printf("[App] Input settings saved")
		}
	}
}

// adjustSensitivity 同步调整两轴灵敏度
func (a *App) adjustSensitivity(delta float64) {
	a.settings.SetHorizontalSensitivity(a.settings.HorizontalSensitivity() + delta)
	a.settings.SetVerticalSensitivity(a.settings.VerticalSensitivity() + delta)
	log.Printf("[App] Sensitivity: %.2f / %.2f",
		a.settings.HorizontalSensitivity(), a.settings.VerticalSensitivity())
}

// handleWeaponKeys 处理武器切换（数字键、Q/E、滚轮）
func (a *App) handleWeaponKeys() {
	switched := false
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit1):
		switched = a.inventory.Select(0)
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit2):
		switched = a.inventory.Select(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit3):
		switched = a.inventory.Select(2)
	case inpututil.IsKeyJustPressed(ebiten.KeyQ):
		switched = a.inventory.Prev()
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		switched = a.inventory.Next()
	default:
		if _, wheelY := ebiten.Wheel(); wheelY > 0 {
			switched = a.inventory.Prev()
		} else if wheelY < 0 {
			switched = a.inventory.Next()
		}
	}

	if switched {
		a.switchFlash = 1
		if weapon, ok := a.inventory.Active(); ok {
			a.animator.OnWeaponSwitch(weapon.ID)
		}
	}
}

// Draw 绘制演示画面，每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 24, G: 28, B: 34, A: 255})

	a.drawFloorGrid(screen)
	a.drawHorizon(screen)
	a.drawCompass(screen)
	a.drawCrosshair(screen)
	a.drawWeaponHUD(screen)

	if !a.captured {
		ebitenutil.DebugPrintAt(screen, "Press Escape to capture the mouse",
			GameWindowWidth/2-100, GameWindowHeight/2+40)
	}
	if a.showDebug {
		a.drawDebugOverlay(screen)
	}
}

// focalLength 返回以像素计的投影焦距
func focalLength() float64 {
	return (GameWindowWidth / 2) / math.Tan(halfFOVDegrees*math.Pi/180)
}

// project 把世界坐标点投影到屏幕坐标
// 返回的第三个值为 false 表示点在近平面之后
func (a *App) project(p types.Vec3) (float64, float64, bool) {
	const near = 0.05

	forward := a.controller.Forward()
	up := a.controller.YawUp()
	right := up.Cross(forward).Normalized()
	camUp := forward.Cross(right)

	d := p.Sub(a.movement.Position())
	z := d.Dot(forward)
	if z < near {
		return 0, 0, false
	}
	focal := focalLength()
	sx := GameWindowWidth/2 + d.Dot(right)/z*focal
	sy := GameWindowHeight/2 - d.Dot(camUp)/z*focal
	return sx, sy, true
}

// drawFloorGrid 绘制地面网格，提供移动和视角变化的参照物
func (a *App) drawFloorGrid(screen *ebiten.Image) {
	const (
		gridHalf = 20  // 网格半径（格数）
		gridStep = 2.0 // 格子边长（米）
		segments = 8   // 每条线的细分段数
	)
	clr := color.RGBA{R: 60, G: 90, B: 70, A: 255}

	eye := a.movement.Position()
	// 网格随观察者平移对齐到格点，视觉上表现为无限地面
	baseX := math.Floor(eye.X/gridStep) * gridStep
	baseZ := math.Floor(eye.Z/gridStep) * gridStep

	drawSegmented := func(from, to types.Vec3) {
		prevX, prevY, prevOK := a.project(from)
		for i := 1; i <= segments; i++ {
			t := float64(i) / segments
			p := types.Vec3{
				X: from.X + (to.X-from.X)*t,
				Y: from.Y + (to.Y-from.Y)*t,
				Z: from.Z + (to.Z-from.Z)*t,
			}
			x, y, ok := a.project(p)
			if ok && prevOK {
				vector.StrokeLine(screen, float32(prevX), float32(prevY), float32(x), float32(y), 1, clr, false)
			}
			prevX, prevY, prevOK = x, y, ok
		}
	}

	half := float64(gridHalf) * gridStep
	for i := -gridHalf; i <= gridHalf; i++ {
		offset := float64(i) * gridStep
		drawSegmented(
			types.Vec3{X: baseX + offset, Y: 0, Z: baseZ - half},
			types.Vec3{X: baseX + offset, Y: 0, Z: baseZ + half},
		)
		drawSegmented(
			types.Vec3{X: baseX - half, Y: 0, Z: baseZ + offset},
			types.Vec3{X: baseX + half, Y: 0, Z: baseZ + offset},
		)
	}
}

// drawHorizon 绘制视线高度的地平线，随俯仰上下移动
func (a *App) drawHorizon(screen *ebiten.Image) {
	eye := a.movement.Position()
	flat := a.controller.AimHeading()
	far := types.Vec3{X: eye.X + flat.X*1000, Y: eye.Y, Z: eye.Z + flat.Z*1000}
	_, sy, ok := a.project(far)
	if !ok || sy < 0 || sy > GameWindowHeight {
		return
	}
	clr := color.RGBA{R: 90, G: 110, B: 130, A: 255}
	vector.StrokeLine(screen, 0, float32(sy), GameWindowWidth, float32(sy), 1, clr, false)
}

// headingYawDegrees 返回向量在水平面上的罗盘角（度，+Z 为 0，+X 为 90）
func headingYawDegrees(v types.Vec3) float64 {
	return math.Atan2(v.X, v.Z) * 180 / math.Pi
}

// drawCompass 绘制顶部罗盘条：身体朝向居中，瞄准方向用独立标记表示
func (a *App) drawCompass(screen *ebiten.Image) {
	const barY = 24
	clr := color.RGBA{R: 180, G: 180, B: 180, A: 255}

	vector.StrokeLine(screen, 0, barY, GameWindowWidth, barY, 1, clr, false)

	headingYaw := headingYawDegrees(a.controller.AimHeading())
	for mark := 0; mark < 360; mark += 15 {
		rel := types.WrapAngle180(float64(mark) - headingYaw)
		if math.Abs(rel) > halfFOVDegrees {
			continue
		}
		x := float32(GameWindowWidth/2 + rel/halfFOVDegrees*(GameWindowWidth/2))
		tickLen := float32(4)
		label := ""
		switch mark {
		case 0:
			label = "N"
		case 90:
			label = "E"
		case 180:
			label = "S"
		case 270:
			label = "W"
		}
		if label != "" {
			tickLen = 8
			ebitenutil.DebugPrintAt(screen, label, int(x)-3, barY+10)
		}
		vector.StrokeLine(screen, x, barY-tickLen, x, barY+tickLen, 1, clr, false)
	}

	// 身体朝向标记（瞄准与航向解耦时偏离中心）
	bodyRel := types.WrapAngle180(headingYawDegrees(a.controller.Heading()) - headingYaw)
	if math.Abs(bodyRel) <= halfFOVDegrees {
		x := float32(GameWindowWidth/2 + bodyRel/halfFOVDegrees*(GameWindowWidth/2))
		vector.StrokeLine(screen, x, barY-12, x, barY-4, 2, color.RGBA{R: 240, G: 200, B: 60, A: 255}, false)
	}
}

// drawCrosshair 绘制屏幕中心十字准星
func (a *App) drawCrosshair(screen *ebiten.Image) {
	const (
		cx  = GameWindowWidth / 2
		cy  = GameWindowHeight / 2
		arm = 8
		gap = 3
	)
	clr := color.RGBA{R: 230, G: 230, B: 230, A: 255}
	vector.StrokeLine(screen, cx-arm, cy, cx-gap, cy, 1, clr, false)
	vector.StrokeLine(screen, cx+gap, cy, cx+arm, cy, 1, clr, false)
	vector.StrokeLine(screen, cx, cy-arm, cx, cy-gap, 1, clr, false)
	vector.StrokeLine(screen, cx, cy+gap, cx, cy+arm, 1, clr, false)
}

// drawWeaponHUD 绘制右下角武器栏，切换时短暂高亮
func (a *App) drawWeaponHUD(screen *ebiten.Image) {
	weapon, ok := a.inventory.Active()
	if !ok {
		return
	}

	const (
		boxW = 140
		boxH = 28
		boxX = GameWindowWidth - boxW - 16
		boxY = GameWindowHeight - boxH - 16
	)

	// 闪烁强度用缓出曲线衰减
	flash := utils.EaseOutCubic(a.switchFlash)
	bg := color.RGBA{R: 40, G: 44, B: 52, A: 220}
	vector.DrawFilledRect(screen, boxX, boxY, boxW, boxH, bg, false)
	if flash > 0 {
		highlight := color.RGBA{R: 240, G: 200, B: 60, A: uint8(160 * flash)}
		vector.StrokeRect(screen, boxX, boxY, boxW, boxH, 2, highlight, false)
	}

	text := fmt.Sprintf("[%d/%d] %s", a.inventory.ActiveIndex()+1, a.inventory.Count(), weapon.Name)
	ebitenutil.DebugPrintAt(screen, text, boxX+8, boxY+6)
}

// drawDebugOverlay 绘制左上角调试信息
func (a *App) drawDebugOverlay(screen *ebiten.Image) {
	pos := a.movement.Position()
	lines := []string{
		fmt.Sprintf("FPS: %.1f  TPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()),
		fmt.Sprintf("Heading: %.1f  Aim: %.1f  Diff: %.1f",
			headingYawDegrees(a.controller.Heading()),
			headingYawDegrees(a.controller.AimHeading()),
			a.controller.AimYawDiff()),
		fmt.Sprintf("Pitch: %.1f  Pending: %.3f / %.3f",
			a.controller.Pitch(), a.controller.PendingYaw(), a.controller.PendingPitch()),
		fmt.Sprintf("Pos: (%.2f, %.2f, %.2f)  Speed: %.2f  Grounded: %v",
			pos.X, pos.Y, pos.Z, a.movement.Speed(), a.movement.Grounded()),
		fmt.Sprintf("Sens: %.2f/%.2f  Invert: %v  Smooth: %v(%.2f)  Accel: %v(%.2f)",
			a.settings.HorizontalSensitivity(), a.settings.VerticalSensitivity(),
			a.settings.InvertVertical(),
			a.settings.SmoothingEnabled(), a.settings.SmoothingStrength(),
			a.settings.AccelerationEnabled(), a.settings.AccelerationStrength()),
		"Keys: Esc capture  F1 debug  F5 save  I invert  K smooth  L accel  -/= sens",
	}
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, 10, 10+i*16)
	}
}

// Layout 返回逻辑屏幕尺寸，独立于实际窗口大小
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return GameWindowWidth, GameWindowHeight
}
