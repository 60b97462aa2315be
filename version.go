package toolsmith

// Version is the toolsmith release version, reported by the CLI and the
// MCP server handshake.
const Version = "0.1.0"
