package utils

import (
	"math/rand"
	"time"

	"github.com/playwright-community/playwright-go"
)

// RandomDelay pauses execution for a random time between min and max (milliseconds)
func RandomDelay(min, max int) {
	time.Sleep(RandomDuration(min, max))
}

// RandomDuration picks a duration in [min, max) milliseconds; min when the range is empty.
func RandomDuration(min, max int) time.Duration {
	if min >= max {
		return time.Duration(min) * time.Millisecond
	}
	return time.Duration(rand.Intn(max-min)+min) * time.Millisecond
}

// MouseJiggle simulates random mouse movements
func MouseJiggle(page playwright.Page) {
	x := float64(rand.Intn(800) + 100) //100-900
	y := float64(rand.Intn(600) + 100) //100-700

	_ = page.Mouse().Move(x, y)
	RandomDelay(100, 300)
}

// SmoothScroll scrolls down in steps so lazily rendered result cards get mounted
func SmoothScroll(page playwright.Page) {
	for i := 0; i < 4; i++ {
		_ = page.Mouse().Wheel(0, 500)
		RandomDelay(400, 800)
	}

	// Scroll up a tiny bit (human-like correction)
	_ = page.Mouse().Wheel(0, -200)
	RandomDelay(300, 600)

	_, _ = page.Evaluate("window.scrollTo(0, document.body.scrollHeight)")
}
