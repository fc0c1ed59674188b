package game

import "log"

// Weapon 武器条目
type Weapon struct {
	// ID 稳定标识（动画和 HUD 资源按它索引）
	ID string
	// Name HUD 显示名称
	Name string
}

// Inventory 武器清单
// 一个扁平数组加一个活动下标，切换即交换下标，没有别的状态
type Inventory struct {
	weapons []Weapon
	active  int
}

// NewInventory 创建武器清单，第一件武器为初始活动武器
func NewInventory(weapons ...Weapon) *Inventory {
	return &Inventory{weapons: weapons}
}

// Count 返回武器数量
func (inv *Inventory) Count() int {
	return len(inv.weapons)
}

// ActiveIndex 返回当前活动武器的下标（空清单返回 0）
func (inv *Inventory) ActiveIndex() int {
	return inv.active
}

// Active 返回当前活动武器
// 空清单时第二个返回值为 false
func (inv *Inventory) Active() (Weapon, bool) {
	if len(inv.weapons) == 0 {
		return Weapon{}, false
	}
	return inv.weapons[inv.active], true
}

// Select 切换到指定下标的武器
// 下标越界或与当前相同时返回 false（未发生切换）
func (inv *Inventory) Select(index int) bool {
	if index < 0 || index >= len(inv.weapons) || index == inv.active {
		return false
	}
	inv.active = index
	log.Printf("[Inventory] Switched to weapon %q", inv.weapons[index].ID)
	return true
}

// Next 切换到下一件武器（循环）
// 武器不足两件时返回 false
func (inv *Inventory) Next() bool {
	if len(inv.weapons) < 2 {
		return false
	}
	return inv.Select((inv.active + 1) % len(inv.weapons))
}

// Prev 切换到上一件武器（循环）
// 武器不足两件时返回 false
func (inv *Inventory) Prev() bool {
	if len(inv.weapons) < 2 {
		return false
	}
	return inv.Select((inv.active - 1 + len(inv.weapons)) % len(inv.weapons))
}
