package kubernetes

import (
	"context"
	"fmt"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/gnasmp/gnasctl/internal/cliutil"
	"github.com/gnasmp/gnasctl/pkg/kubejob"
	"github.com/gnasmp/gnasctl/pkg/launcher"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

func NewKubernetesCmd() *cobra.Command {
	var (
		jobName       string
		gpus          int
		queue         string
		schedulerName string
		pvc           string
		mountPath     string
		wait          bool
		timeout       time.Duration
		dryRun        bool
	)

	cmd := &cobra.Command{
		Use:   "kubernetes <devices> <genotype>",
		Short: "Submit the training run as a Kubernetes Job",
		Long: heredoc.Doc(`
			Submit the same invocation "gnasctl train" would run as a
			Kubernetes Job. The number of entries in <devices> becomes the
			nvidia.com/gpu limit; the device plugin numbers the allocated GPUs
			from 0, so the container sees them as 0..n-1. With --gpus the
			device list is passed through unchanged. <genotype> must resolve
			inside the pod, for example under a volume mounted with --pvc.

			The python, entrypoint and workdir settings of the local machine
			are not used; set kube-python, kube-entrypoint and kube-workdir
			instead.
		`),
		Example: heredoc.Doc(`
			# Submit and return immediately
			$ gnasctl run kubernetes 0 /data/genotypes/SBM_PATTERN.txt --image registry/gnas:latest --pvc gnas-data

			# Submit to a KAI scheduler queue and wait for the result
			$ gnasctl run kubernetes 0,1 /data/g.txt --image gnas --queue research --scheduler-name kai-scheduler --wait

			# Print the Job manifest
			$ gnasctl run kubernetes 0 /data/g.txt --image gnas --dry-run
		`),
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := cliutil.ResolveInvocation(cmd, args[0], args[1], cliutil.KubernetesTarget)
			if err != nil {
				return err
			}

			opts := kubejob.JobOptions{
				Namespace:     cliutil.GetString(cmd, "namespace", "kube-namespace"),
				Name:          jobName,
				Image:         cliutil.GetString(cmd, "image", "kube-image"),
				GPUs:          gpus,
				Queue:         queue,
				SchedulerName: schedulerName,
				PVC:           pvc,
				MountPath:     mountPath,
			}

			if dryRun {
				if opts.Namespace == "" {
					opts.Namespace = "default"
				}
				return printManifest(cmd, inv, opts)
			}

			client, namespace, err := kubejob.NewClientset(cliutil.GetString(cmd, "kubeconfig", "kubeconfig"))
			if err != nil {
				return fmt.Errorf("failed to load kubeconfig: %w", err)
			}
			if opts.Namespace == "" {
				opts.Namespace = namespace
			}
			if opts.Namespace == "" {
				opts.Namespace = "default"
			}

			ctx := cmd.Context()
			if wait && timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			runner := &kubejob.Runner{
				Client:  client,
				Options: opts,
				Wait:    wait,
			}
			recorder := &launcher.Recorder{Dir: cliutil.GetString(cmd, "record-dir", "record-dir")}
			return launcher.Launch(ctx, runner, inv, recorder)
		},
	}

	cliutil.AddLaunchFlags(cmd)
	cmd.Flags().String("image", "", "Container image holding the training program")
	cmd.Flags().StringP("namespace", "n", "", "Namespace of the Job (default from kubeconfig)")
	cmd.Flags().String("kubeconfig", "", "Path to a kubeconfig file")
	cmd.Flags().String("record-dir", "", "Directory receiving one YAML record per run")
	cmd.Flags().StringVar(&jobName, "name", "", "Job name (default derived from profile and run id)")
	cmd.Flags().IntVar(&gpus, "gpus", 0, "nvidia.com/gpu limit (default: number of devices)")
	cmd.Flags().StringVar(&queue, "queue", "", "Scheduling queue label (kai.scheduler/queue)")
	cmd.Flags().StringVar(&schedulerName, "scheduler-name", "", "Pod scheduler name")
	cmd.Flags().StringVar(&pvc, "pvc", "", "PersistentVolumeClaim to mount into the pod")
	cmd.Flags().StringVar(&mountPath, "mount-path", kubejob.DefaultMountPath, "Mount path of --pvc")
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait for the Job to finish and exit with its result")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Maximum time to wait with --wait (0 waits forever)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the Job manifest instead of submitting it")

	return cmd
}

func printManifest(cmd *cobra.Command, inv *launcher.Invocation, opts kubejob.JobOptions) error {
	job, err := kubejob.NewJob(inv, opts)
	if err != nil {
		return err
	}
	job.APIVersion = "batch/v1"
	job.Kind = "Job"

	out, err := yaml.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))
	return nil
}
