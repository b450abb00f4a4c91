package tracksplit

// Version is the semantic version of the tracksplit library.
const Version = "0.1.0"
