package kubejob

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gnasmp/gnasctl/pkg/launcher"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/validation"
)

const (
	GPUResource      corev1.ResourceName = "nvidia.com/gpu"
	QueueLabel                           = "kai.scheduler/queue"
	RunIDLabel                           = "gnasctl.io/run-id"
	ProfileLabel                         = "gnasctl.io/profile"
	CommandLineAnnot                     = "gnasctl.io/command-line"
	DefaultMountPath                     = "/data"

	containerName = "train"
	volumeName    = "data"
)

// JobOptions controls how an invocation is turned into a Job.
type JobOptions struct {
	Namespace string
	Name      string
	Image     string

	// GPUs is the nvidia.com/gpu limit. Zero derives it from the device list.
	GPUs int

	Queue         string
	SchedulerName string

	// PVC is mounted at MountPath so that genotype paths under it resolve
	// inside the pod.
	PVC       string
	MountPath string
}

// CountDevices returns the number of non-empty entries in a comma
// separated device list.
func CountDevices(devices string) int {
	n := 0
	for _, d := range strings.Split(devices, ",") {
		if strings.TrimSpace(d) != "" {
			n++
		}
	}
	return n
}

// PodDevices renumbers a device list to the indices the GPUs allocated to a
// pod carry inside it, 0..n-1. An empty list stays empty.
func PodDevices(devices string) string {
	n := CountDevices(devices)
	if n == 0 {
		return devices
	}
	ids := make([]string, n)
	for i := range ids {
		ids[i] = strconv.Itoa(i)
	}
	return strings.Join(ids, ",")
}

// JobName derives a DNS-1123 compliant name from the profile and run id.
func JobName(inv *launcher.Invocation) string {
	base := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, strings.ToLower(inv.Profile))
	base = strings.Trim(base, "-")
	if base == "" {
		base = "train"
	}
	id := strings.ReplaceAll(inv.RunID, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	name := "gnas-" + base
	if limit := validation.DNS1123LabelMaxLength - len(id) - 1; len(name) > limit {
		name = strings.TrimRight(name[:limit], "-")
	}
	return name + "-" + strings.ToLower(id)
}

// NewJob builds a Job running the same command line the local runner would
// execute. When the GPU limit is derived from the device list, the device
// variable is renumbered to the pod's own GPUs; an explicit limit passes the
// list through unchanged.
func NewJob(inv *launcher.Invocation, opts JobOptions) (*batchv1.Job, error) {
	if opts.Image == "" {
		return nil, fmt.Errorf("an image is required to run on Kubernetes")
	}

	name := opts.Name
	if name == "" {
		name = JobName(inv)
	}
	if errs := validation.IsDNS1123Label(name); len(errs) > 0 {
		return nil, fmt.Errorf("invalid job name %q: %s", name, strings.Join(errs, ", "))
	}

	labels := map[string]string{
		"app.kubernetes.io/name":       "gnasctl",
		"app.kubernetes.io/managed-by": "gnasctl",
	}
	if len(validation.IsValidLabelValue(inv.RunID)) == 0 {
		labels[RunIDLabel] = inv.RunID
	}
	if len(validation.IsValidLabelValue(inv.Profile)) == 0 {
		labels[ProfileLabel] = inv.Profile
	}
	if opts.Queue != "" {
		labels[QueueLabel] = opts.Queue
	}

	container := corev1.Container{
		Name:       containerName,
		Image:      opts.Image,
		Command:    []string{inv.Program},
		Args:       inv.Args,
		WorkingDir: inv.Dir,
	}

	devices := inv.Devices
	gpus := opts.GPUs
	if gpus == 0 {
		gpus = CountDevices(inv.Devices)
		devices = PodDevices(inv.Devices)
	}
	container.Env = []corev1.EnvVar{{Name: inv.DeviceEnv, Value: devices}}

	if gpus > 0 {
		quantity := *resource.NewQuantity(int64(gpus), resource.DecimalSI)
		container.Resources = corev1.ResourceRequirements{
			Limits: corev1.ResourceList{GPUResource: quantity},
		}
	}

	podSpec := corev1.PodSpec{
		RestartPolicy: corev1.RestartPolicyNever,
		SchedulerName: opts.SchedulerName,
		Containers:    []corev1.Container{container},
	}

	if opts.PVC != "" {
		mountPath := opts.MountPath
		if mountPath == "" {
			mountPath = DefaultMountPath
		}
		podSpec.Volumes = []corev1.Volume{{
			Name: volumeName,
			VolumeSource: corev1.VolumeSource{
				PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{ClaimName: opts.PVC},
			},
		}}
		podSpec.Containers[0].VolumeMounts = []corev1.VolumeMount{{Name: volumeName, MountPath: mountPath}}
	}

	backoffLimit := int32(0)
	job := &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: opts.Namespace,
			Labels:    labels,
			Annotations: map[string]string{
				CommandLineAnnot: inv.CommandLine(),
			},
		},
		Spec: batchv1.JobSpec{
			BackoffLimit: &backoffLimit,
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: labels},
				Spec:       podSpec,
			},
		},
	}
	return job, nil
}
