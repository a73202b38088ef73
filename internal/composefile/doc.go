// Package composefile reads compose YAML files far enough to answer the
// questions the CLI asks before spawning the compose tool: which files
// would be used, what the project is called, which services exist and
// which explicit container names they carry.
//
// It is not a compose implementation. Interpolation, extends, profiles and
// every other service field are ignored; the compose tool remains the
// authority on what a file means.
//
// Files are read through an afero.Fs so tests can use an in-memory
// filesystem.
package composefile
