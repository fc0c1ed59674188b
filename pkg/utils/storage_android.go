//go:build android

package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureStorageDir 确保 Android 存储目录存在并可写
// gdata 库在 Android 上使用 /data/data/{package}/ 作为存储路径，
// 但不会预先创建子目录。此函数在 gdata 初始化前调用，
// 确保设置文件的存储目录存在且可写。
func EnsureStorageDir() error {
	app, err := detectAndroidApp()
	if err != nil {
		return fmt.Errorf("failed to detect Android app: %w", err)
	}

	settingsDir := filepath.Join("/data/data", app, "settings")

	if err := os.MkdirAll(settingsDir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory %s: %w", settingsDir, err)
	}

	// 验证目录可写
	testFile := filepath.Join(settingsDir, ".write_test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return fmt.Errorf("settings directory %s is not writable: %w", settingsDir, err)
	}
	os.Remove(testFile)

	return nil
}

// detectAndroidApp 从 /proc/self/cmdline 读取 Android 应用包名
func detectAndroidApp() (string, error) {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return "", err
	}

	// 移除 null 字节和换行符
	copied := make([]byte, 0, len(data))
	for _, ch := range data {
		switch ch {
		case 0, '\n':
			continue
		}
		copied = append(copied, ch)
	}

	result := string(copied)
	if result == "" {
		return "", fmt.Errorf("got empty output from /proc/self/cmdline")
	}

	return result, nil
}

// GetStoragePath 获取 Android 存储路径（用于调试）
func GetStoragePath() string {
	app, err := detectAndroidApp()
	if err != nil {
		return ""
	}
	return filepath.Join("/data/data", app)
}
