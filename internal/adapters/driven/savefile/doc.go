// Package savefile reads save files from the local filesystem.
//
// A save is either a ZIP archive holding "gamestate" and "meta" entries or
// a plain gamestate text file. Text that is not valid UTF-8 is decoded as
// Windows-1252, the encoding the game writes.
package savefile
