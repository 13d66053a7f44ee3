// Command reelsmith renders short vertical videos and manages the footage
// library they draw from.
//
// Typical use:
//
//	reelsmith config init
//	reelsmith library scan
//	reelsmith plan --topic ocean --script-file script.txt --narration voice.mp3
//	reelsmith render --request request.yaml
package main
