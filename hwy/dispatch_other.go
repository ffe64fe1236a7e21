//go:build !amd64 && !arm64

package hwy

func detectCPUFeatures() Capabilities {
	// Non-amd64 architectures fall back to scalar mode for now.
	return Capabilities{Level: DispatchScalar}
}
