package screenshot

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework CoreGraphics -framework Foundation
#import <CoreGraphics/CoreGraphics.h>
#import <Foundation/Foundation.h>

bool hasScreenRecordingPermission() {
    if (@available(macOS 11.0, *)) {
        return CGPreflightScreenCaptureAccess();
    }
    return true;
}

void requestScreenRecordingPermission() {
    if (@available(macOS 11.0, *)) {
        CGRequestScreenCaptureAccess();
    }
}
*/
import "C"

import (
	"context"
	"fmt"
	"os/exec"
)

// HasPermission checks if the app has screen recording permission.
func HasPermission() bool {
	return bool(C.hasScreenRecordingPermission())
}

// RequestPermission requests screen recording permission from the system.
func RequestPermission() {
	C.requestScreenRecordingPermission()
}

// captureTo runs screencapture with interactive selection (-i) and no sound (-x).
func captureTo(ctx context.Context, path string) error {
	if err := exec.CommandContext(ctx, "screencapture", "-i", "-x", path).Run(); err != nil {
		return fmt.Errorf("screencapture: %w", err)
	}
	return nil
}
