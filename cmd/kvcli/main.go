package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli"

	"github.com/respkv/respkv/client"
	"github.com/respkv/respkv/internal/resp"
	"github.com/respkv/respkv/internal/server"
)

var (
	promptColor = color.New(color.FgGreen, color.Bold)
	errColor    = color.New(color.FgRed)
	intColor    = color.New(color.FgCyan)
)

func main() {
	app := cli.NewApp()
	app.Name = "kvcli"
	app.Usage = "interactive command line for the kvserver"
	app.Version = server.Version
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "host, H",
			Value: "127.0.0.1",
			Usage: "server host",
		},
		cli.IntFlag{
			Name:  "port, p",
			Value: 6543,
			Usage: "server port",
		},
	}
	app.Action = runRepl
	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

func runRepl(ctx *cli.Context) error {
	addr := fmt.Sprintf("%s:%d", ctx.String("host"), ctx.Int("port"))
	cl, err := client.Dial(addr)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	defer cl.Close()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		promptColor.Printf("%s> ", addr)
		if !scanner.Scan() {
			fmt.Println()
			return nil
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if strings.EqualFold(fields[0], "exit") {
			return nil
		}

		reply, err := cl.Do(fields...)
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("connection lost: %v", err), 1)
		}
		printReply(reply, "")

		// after a SUBSCRIBE the connection turns into a message stream:
		// keep printing confirmations and pushes until the server goes away
		if strings.EqualFold(fields[0], "subscribe") {
			streamMessages(cl)
			return nil
		}
		if strings.EqualFold(fields[0], "quit") {
			return nil
		}
	}
}

func streamMessages(cl *client.Client) {
	for {
		v, err := cl.Read()
		if err != nil {
			errColor.Printf("stream closed: %v\n", err)
			return
		}
		printReply(v, "")
	}
}

func printReply(v *resp.Value, indent string) {
	switch v.Typ {
	case resp.STRING:
		fmt.Printf("%s%s\n", indent, v.Str)
	case resp.ERROR:
		errColor.Printf("%s(error) %s\n", indent, v.Err)
	case resp.INTEGER:
		intColor.Printf("%s(integer) %d\n", indent, v.Num)
	case resp.BULK:
		fmt.Printf("%s%q\n", indent, string(v.Blk))
	case resp.NULL:
		fmt.Printf("%s(nil)\n", indent)
	case resp.ARRAY:
		if len(v.Arr) == 0 {
			fmt.Printf("%s(empty array)\n", indent)
			return
		}
		for i := range v.Arr {
			fmt.Printf("%s%d) ", indent, i+1)
			printReply(&v.Arr[i], "")
		}
	case resp.MAP:
		if len(v.Pairs) == 0 {
			fmt.Printf("%s(empty map)\n", indent)
			return
		}
		for i := range v.Pairs {
			fmt.Printf("%s%d# %q => ", indent, i+1, string(v.Pairs[i].Key))
			printReply(&v.Pairs[i].Val, "")
		}
	}
}
