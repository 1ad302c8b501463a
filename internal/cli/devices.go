package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/llehouerou/jukebox/internal/device"
	"github.com/llehouerou/jukebox/internal/errmsg"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List the configured devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := newRegistry(cmd.Context(), cfg, zerolog.Nop())
		renderDevicesTable(os.Stdout, reg.Devices())
		return nil
	},
}

var devicesMountCmd = &cobra.Command{
	Use:   "mount [name]",
	Short: "Mount a configured device",
	Long: `Runs the mount command of a device. Without a name, pick one of the
unmounted devices interactively.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDevicesMount,
}

func init() {
	devicesCmd.AddCommand(devicesMountCmd)
	rootCmd.AddCommand(devicesCmd)
}

func runDevicesMount(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	reg := newRegistry(ctx, cfg, zerolog.Nop())

	unmounted := lo.Filter(reg.Devices(), func(d *device.Device, _ int) bool {
		return !d.IsMounted()
	})
	if len(unmounted) == 0 {
		fmt.Println("All devices are mounted.")
		return nil
	}

	var target *device.Device
	if len(args) == 1 {
		d, ok := findDevice(reg.Devices(), args[0])
		if !ok {
			return fmt.Errorf("unknown device %q", args[0])
		}
		if d.IsMounted() {
			fmt.Printf("%s is already mounted.\n", d.Name)
			return nil
		}
		target = d
	} else {
		d, err := pickDevice(unmounted)
		if err != nil {
			return err
		}
		target = d
	}

	if err := reg.Mount(ctx, target); err != nil {
		if errors.Is(err, device.ErrNotMounted) {
			return fmt.Errorf("%s: %s is still not mounted at %s", errmsg.OpDeviceMount, target.Name, target.MountPoint)
		}
		return fmt.Errorf("%s: %w", errmsg.OpDeviceMount, err)
	}
	fmt.Printf("Mounted %s at %s\n", target.Name, target.MountPoint)
	return nil
}

func pickDevice(devices []*device.Device) (*device.Device, error) {
	options := lo.Map(devices, func(d *device.Device, _ int) huh.Option[string] {
		return huh.NewOption(d.String(), d.ID)
	})

	var selectedID string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select a device to mount").
				Options(options...).
				Value(&selectedID),
		),
	)
	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}
	d, ok := lo.Find(devices, func(d *device.Device) bool { return d.ID == selectedID })
	if !ok {
		return nil, errors.New("no device selected")
	}
	return d, nil
}

// findDevice matches a device by name, falling back to its mount point.
func findDevice(devices []*device.Device, name string) (*device.Device, bool) {
	if d, ok := lo.Find(devices, func(d *device.Device) bool { return d.Name == name }); ok {
		return d, true
	}
	return lo.Find(devices, func(d *device.Device) bool { return d.MountPoint == name })
}

func renderDevicesTable(w io.Writer, devices []*device.Device) {
	if len(devices) == 0 {
		fmt.Fprintln(w, "No devices configured.")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Mount point", "Removable", "Mounted"})
	for _, d := range devices {
		t.AppendRow(table.Row{d.Name, d.MountPoint, yesNo(d.Removable), yesNo(d.IsMounted())})
	}
	t.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
