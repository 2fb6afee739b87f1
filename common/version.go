package common

// PackageName is used as the Prometheus namespace and the default log service tag.
const PackageName = "blockward"

// Version is overridden at build time with -ldflags "-X github.com/blockward/blockward-backend/common.Version=..."
var Version = "dev"
