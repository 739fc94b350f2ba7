package kubejob

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

const serviceAccountNamespaceFile = "/var/run/secrets/kubernetes.io/serviceaccount/namespace"

// NewClientset builds a clientset from, in order: the explicit kubeconfig
// path, $KUBECONFIG, ~/.kube/config, and finally the in-cluster service
// account. It also returns the namespace the chosen config points at.
func NewClientset(kubeconfigPath string) (kubernetes.Interface, string, error) {
	config, namespace, err := getKubeConfig(kubeconfigPath)
	if err != nil {
		return nil, "", err
	}
	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, "", err
	}
	return clientset, namespace, nil
}

func getKubeConfig(kubeconfigPath string) (*rest.Config, string, error) {
	if kubeconfigPath == "" {
		kubeconfigPath = os.Getenv("KUBECONFIG")
		if kubeconfigPath != "" {
			log.Debug("Loading kubeconfig from environment variable", "path", kubeconfigPath)
		}
	}

	if kubeconfigPath == "" {
		if homeDir, err := os.UserHomeDir(); err == nil {
			path := filepath.Join(homeDir, ".kube", "config")
			if _, err := os.Stat(path); err == nil {
				log.Debug("Loading kubeconfig from home directory", "path", path)
				kubeconfigPath = path
			}
		}
	}

	if kubeconfigPath != "" {
		loader := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
			&clientcmd.ClientConfigLoadingRules{ExplicitPath: kubeconfigPath},
			&clientcmd.ConfigOverrides{},
		)
		config, err := loader.ClientConfig()
		if err != nil {
			return nil, "", err
		}
		namespace, _, err := loader.Namespace()
		return config, namespace, err
	}

	log.Debug("Loading in-cluster kubeconfig")
	config, err := rest.InClusterConfig()
	if err != nil {
		return nil, "", err
	}
	return config, getInClusterNamespace(), nil
}

func getInClusterNamespace() string {
	nsBytes, err := os.ReadFile(serviceAccountNamespaceFile)
	if err != nil {
		return "default"
	}
	return strings.TrimSpace(string(nsBytes))
}
