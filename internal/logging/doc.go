// Package logger provides leveled console logging for dyad commands.
//
// # Verbosity Levels
//
//   - --verbose: info and warning messages
//   - --debug: everything, including debug details and errors
//
// Without flags only critical warnings are printed.
//
// # Log Methods
//
//	Logger.Infof()           // --verbose or --debug
//	Logger.Debugf()          // --debug only
//	Logger.Warnf()           // --verbose or --debug
//	Logger.WarnfAlways()     // always shown
//	Logger.Errorf()          // --debug only
//	Logger.ErrorfAndReturn() // logs like Errorf, returns the error
//
// The logger never receives passwords, emails or key material. Commands
// create it in the root PersistentPreRun.
package logger
