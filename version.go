package semdb

// Version is the tool version. It namespaces the payload cache, so
// entries written by one release are never read by another.
const Version = "0.3.1"
