// Package device talks to the Android device running the puzzle: it captures
// screenshots and delivers taps.
//
// Everything goes through the adb binary. Taps use either "adb shell input
// tap" (slow, no setup) or the control socket of a scrcpy server pushed to
// the device (fast, needs the server jar). Both tap channels queue taps on a
// single worker goroutine and drain the queue on Close.
package device
