// Package banner prints the miner's startup, shutdown, and share-accepted
// ascii art, colorized the way the original client does.
package banner

import (
	"fmt"

	"github.com/fatih/color"
)

const startupArt = `
                      __
                     // \
                     \\_/ //
brrr''-.._.-''-.._.. -(||)(')
                     '''
`

const exitArt = `
    _
 __( )_
(      (o____
 |          |
 |      (__/
   \     /   ___
   /     \  \___/
 /    ^    /     \
|   |  |__|_ SHA  |
|    \______)____/
 \         /
   \     /_
    |  ( __)
    (____)
`

const shareAcceptedArt = `
  .             *        .     .       .
       .     _     .     .            .       .
.    .   _  / |      .        .  *         _  .     .
        | \_| |                           | | __
      _ |     |                   _       | |/  |
     | \      |      ____        | |     /  |    \
     |  |     \    +/_\/_\+      | |    /   |     \
____/____\--...\___ \_||_/ ___...|__\-..|____\____/__
      .     .      |_|__|_|         .       .
   .    . .       _/ /__\ \_ .          .
      .       .    .           .         .
                                         ___
                                      .-' \\".
                                     /'    ;--:
                                    |     (  (_)==
                                    |_ ._ '.__.;
                                    \_/'--_---_(
                                     ('--(./-\.)
                                     '|     _\ |
                                      | \  __ /
                                     /|  '.__/
                                  .'' \     |_
                                       '-__ / '-
`

// PrintStartup prints the startup banner, bold bright yellow.
func PrintStartup() {
	c := color.New(color.Bold, color.FgHiYellow)
	c.Println(startupArt)
}

// PrintExit prints the shutdown banner, bold bright yellow.
func PrintExit() {
	c := color.New(color.Bold, color.FgHiYellow)
	c.Println(exitArt)
}

// PrintShareAccepted prints the share-accepted banner, bold green.
func PrintShareAccepted() {
	c := color.New(color.Bold, color.FgGreen)
	c.Println(shareAcceptedArt)
}

// PrintThreadClamp prints the bold-red warning shown when the requested
// thread count exceeds the detected CPU count.
func PrintThreadClamp() {
	c := color.New(color.Bold, color.FgRed)
	c.Println("Requested number of threads exceeds available cores. Using maximum allowed")
}

// PrintConnectError prints a bold-red connection failure message.
func PrintConnectError(err error) {
	c := color.New(color.Bold, color.FgRed)
	c.Println(fmt.Sprintf("Failed to connect to pool: %v", err))
}

// PrintNewJob prints the bold-blue "Received new job" label followed by the
// bold-yellow job details.
func PrintNewJob(jobID, data, target string) {
	label := color.New(color.Bold, color.FgBlue).Sprint("Received new job:")
	details := color.New(color.Bold, color.FgYellow).Sprintf(
		"ID = %s, Data = %s, Target = %s", jobID, data, target)
	fmt.Println(label, details)
}

// PrintShareRejected prints a red "Share rejected" message.
func PrintShareRejected() {
	c := color.New(color.FgRed)
	c.Println("Share rejected.")
}

// PrintDisconnected prints a red message announcing the pool connection was
// lost and a reconnect attempt follows.
func PrintDisconnected() {
	c := color.New(color.FgRed)
	c.Println("WebSocket connection closed. Will sleep then try to reconnect.")
}
