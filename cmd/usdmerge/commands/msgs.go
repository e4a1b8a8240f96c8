package commands

// Message constants
const (
	MsgRootShort = "Merge bundled USD plugins into a USD repository checkout"
	MsgRootLong  = `usdmerge merges or copies the plugin trees bundled alongside this tool
into a standard USD repository checkout.

For every path a selected plugin declares, usdmerge copies the path into
the repository when it is new there, or walks into it and reconciles the
contents file by file. Conflicting files are handed to the external
three-way merge tool when one is installed; without one they are
overwritten with the bundled version.

The destination must look like a USD checkout: it has to contain the
pxr/pxr.h.in header template. With no plugin flags set, usdmerge only
validates the destination and merges nothing.`

	MsgRootExample = `  # Validate a checkout without merging anything
  usdmerge ~/src/USD

  # Merge the Nuke plugins
  usdmerge --nuke ~/src/USD

  # Merge everything
  usdmerge --nuke --houdini_hydra ~/src/USD

  # See what is available
  usdmerge plugins`

	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"

	MsgPluginsShort = "List the plugins bundled with this tool"
	MsgVersionShort = "Print version information"
)
