package homesync

// Command descriptions
const (
	MsgRootShort = "Bootstrap a workstation and keep dotfiles in git"
	MsgRootLong  = `homesync moves your dotfiles into a git repository, links them back
into your home directory, and recreates those links on a new machine.

Without flags it opens an interactive menu offering to bootstrap a new
machine (package installation) or to sync dotfiles. --push and --pull run
the corresponding git operation against the dotfiles repository and exit.

Every command is shown before it runs and must be confirmed unless --yes is
given. Run one homesync at a time: nothing guards the repository or the
state file against concurrent runs.`

	MsgStatusShort     = "Show repository and link status of tracked dotfiles"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
)

// Flag descriptions
const (
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagPush    = "Commit and push the dotfiles repository, then exit"
	MsgFlagPull    = "Pull the dotfiles repository, then exit"
	MsgFlagRepo    = "Dotfiles repository (default from config, ~/dotfiles)"
	MsgFlagYes     = "Run commands without asking for confirmation"
	MsgFlagConfig  = "Config file (default $XDG_CONFIG_HOME/homesync/config.toml)"
)

// Menu labels
const (
	MsgMainMenu      = "Main prompt"
	MsgMenuBootstrap = "Bootstrap a new machine"
	MsgMenuSync      = "Sync dotfiles"
)

// Output
const (
	MsgAborted        = "Aborted, nothing else was changed."
	MsgPullFailed     = "pull failed"
	MsgRepository     = "Repository: %s\n"
	MsgBranch         = "Branch:     %s\n"
	MsgWorkingTree    = "Working tree: %s\n"
	MsgNotGit         = "not a git working copy"
	MsgVersionFormat  = "homesync version %s\n"
	MsgCommitFormat   = "  commit: %s\n"
	MsgBuiltFormat    = "  built:  %s\n"
	MsgCompletionLong = `To load completions:

Bash:
  $ source <(homesync completion bash)

Zsh:
  $ homesync completion zsh > "${fpath[1]}/_homesync"

Fish:
  $ homesync completion fish | source

PowerShell:
  PS> homesync completion powershell | Out-String | Invoke-Expression
`
)
